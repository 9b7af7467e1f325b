package files

import (
	"context"
	"errors"
)

// Tree enforces the structural rules of a user's file forest.
type Tree struct {
	repo Repository
}

// NewTree creates a Tree backed by repo.
func NewTree(repo Repository) *Tree {
	return &Tree{repo: repo}
}

// ValidateParent checks that parentID is either the root or a folder owned by
// ownerID. Malformed ids are reported as ErrParentNotFound.
func (t *Tree) ValidateParent(ctx context.Context, parentID, ownerID string) error {
	if IsRoot(parentID) {
		return nil
	}

	parent, err := t.repo.FindOwned(ctx, parentID, ownerID)
	if errors.Is(err, ErrNotFound) {
		return ErrParentNotFound
	}
	if err != nil {
		return err
	}

	if parent.Kind != KindFolder {
		return ErrParentNotFolder
	}
	return nil
}
