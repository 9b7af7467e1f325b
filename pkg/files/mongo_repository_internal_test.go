package files

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestListPipeline(t *testing.T) {
	t.Parallel()

	t.Run("owner only", func(t *testing.T) {
		t.Parallel()
		p := listPipeline("u1", "", 0)
		require.Len(t, p, 3)
		assert.Equal(t, "$match", p[0][0].Key)
		assert.Equal(t, bson.D{{Key: "userId", Value: "u1"}}, p[0][0].Value)
		assert.Equal(t, bson.D{{Key: "_id", Value: -1}}, p[1][0].Value)
	})

	t.Run("parent filter and page offset", func(t *testing.T) {
		t.Parallel()
		p := listPipeline("u1", "65a1", 2)
		assert.Equal(t, bson.D{{Key: "userId", Value: "u1"}, {Key: "parentId", Value: "65a1"}}, p[0][0].Value)

		facet := p[2][0].Value.(bson.D)
		require.Len(t, facet, 2)
		assert.Equal(t, "metadata", facet[0].Key)
		assert.Equal(t, bson.A{
			bson.D{{Key: "$count", Value: "total"}},
			bson.D{{Key: "$addFields", Value: bson.D{{Key: "page", Value: 2}}}},
		}, facet[0].Value)
		assert.Equal(t, "data", facet[1].Key)
		assert.Equal(t, bson.A{
			bson.D{{Key: "$skip", Value: 40}},
			bson.D{{Key: "$limit", Value: PageSize}},
		}, facet[1].Value)
	})
}

func TestFileDocument(t *testing.T) {
	t.Parallel()

	doc := newFileDocument(&FileNode{OwnerID: "u1", Name: "pic.png", Kind: KindImage, LocalPath: "/tmp/k"})
	assert.False(t, doc.ID.IsZero())
	assert.Equal(t, RootID, doc.ParentID)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var decoded fileDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	node := decoded.node()
	assert.Equal(t, doc.ID.Hex(), node.ID)
	assert.Equal(t, KindImage, node.Kind)
	assert.Equal(t, "/tmp/k", node.LocalPath)

	folder := newFileDocument(&FileNode{OwnerID: "u1", Name: "docs", Kind: KindFolder, ParentID: "p"})
	raw, err = bson.Marshal(folder)
	require.NoError(t, err)
	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.NotContains(t, m, "localPath")
	assert.Equal(t, "p", m["parentId"])
}
