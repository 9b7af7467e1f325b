package files_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filemanager/pkg/files"
)

func TestTree_ValidateParent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := files.NewMemoryRepository()
	folder := &files.FileNode{OwnerID: "u1", Name: "docs", Kind: files.KindFolder}
	require.NoError(t, repo.Insert(ctx, folder))
	leaf := &files.FileNode{OwnerID: "u1", Name: "a.txt", Kind: files.KindFile, LocalPath: "/x"}
	require.NoError(t, repo.Insert(ctx, leaf))

	tree := files.NewTree(repo)

	assert.NoError(t, tree.ValidateParent(ctx, "", "u1"))
	assert.NoError(t, tree.ValidateParent(ctx, files.RootID, "u1"))
	assert.NoError(t, tree.ValidateParent(ctx, folder.ID, "u1"))
	assert.ErrorIs(t, tree.ValidateParent(ctx, leaf.ID, "u1"), files.ErrParentNotFolder)
	assert.ErrorIs(t, tree.ValidateParent(ctx, folder.ID, "u2"), files.ErrParentNotFound)
	assert.ErrorIs(t, tree.ValidateParent(ctx, "garbage", "u1"), files.ErrParentNotFound)
}
