package files

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the Mongo collection holding file nodes.
const CollectionName = "files"

type fileDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	UserID    string        `bson:"userId"`
	Name      string        `bson:"name"`
	Type      string        `bson:"type"`
	ParentID  string        `bson:"parentId"`
	IsPublic  bool          `bson:"isPublic"`
	LocalPath string        `bson:"localPath,omitempty"`
}

func (d fileDocument) node() *FileNode {
	return &FileNode{
		ID:        d.ID.Hex(),
		OwnerID:   d.UserID,
		Name:      d.Name,
		Kind:      Kind(d.Type),
		ParentID:  d.ParentID,
		IsPublic:  d.IsPublic,
		LocalPath: d.LocalPath,
	}
}

func newFileDocument(n *FileNode) fileDocument {
	parentID := n.ParentID
	if IsRoot(parentID) {
		parentID = RootID
	}
	return fileDocument{
		ID:        bson.NewObjectID(),
		UserID:    n.OwnerID,
		Name:      n.Name,
		Type:      string(n.Kind),
		ParentID:  parentID,
		IsPublic:  n.IsPublic,
		LocalPath: n.LocalPath,
	}
}

type listFacet struct {
	Metadata []struct {
		Total int64 `bson:"total"`
		Page  int   `bson:"page"`
	} `bson:"metadata"`
	Data []fileDocument `bson:"data"`
}

// MongoRepository stores nodes in a Mongo collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a repository on db's "files" collection.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the compound index backing List.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "parentId", Value: 1},
			{Key: "_id", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: create index: %v", ErrRepository, err)
	}
	return nil
}

// Insert implements Repository.
func (r *MongoRepository) Insert(ctx context.Context, node *FileNode) error {
	doc := newFileDocument(node)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: insert: %v", ErrRepository, err)
	}

	node.ID = doc.ID.Hex()
	node.ParentID = doc.ParentID
	return nil
}

// FindByID implements Repository.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (*FileNode, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

// FindOwned implements Repository.
func (r *MongoRepository) FindOwned(ctx context.Context, id, ownerID string) (*FileNode, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}, {Key: "userId", Value: ownerID}})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.D) (*FileNode, error) {
	var doc fileDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find: %v", ErrRepository, err)
	}
	return doc.node(), nil
}

// List implements Repository.
func (r *MongoRepository) List(ctx context.Context, q ListQuery) (Page, error) {
	page := max(q.Page, 0)

	cursor, err := r.coll.Aggregate(ctx, listPipeline(q.OwnerID, q.ParentID, page))
	if err != nil {
		return Page{}, fmt.Errorf("%w: aggregate: %v", ErrRepository, err)
	}

	var facets []listFacet
	if err := cursor.All(ctx, &facets); err != nil {
		return Page{}, fmt.Errorf("%w: decode page: %v", ErrRepository, err)
	}

	result := Page{Items: []FileNode{}, Page: page}
	if len(facets) == 0 {
		return result, nil
	}

	if len(facets[0].Metadata) > 0 {
		result.Total = facets[0].Metadata[0].Total
	}
	for _, doc := range facets[0].Data {
		result.Items = append(result.Items, *doc.node())
	}
	return result, nil
}

// listPipeline matches the owner (and parent), sorts newest first and splits
// the stream into a count and one page of data.
func listPipeline(ownerID, parentID string, page int) mongo.Pipeline {
	match := bson.D{{Key: "userId", Value: ownerID}}
	if parentID != "" {
		match = append(match, bson.E{Key: "parentId", Value: parentID})
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		{{Key: "$facet", Value: bson.D{
			{Key: "metadata", Value: bson.A{
				bson.D{{Key: "$count", Value: "total"}},
				bson.D{{Key: "$addFields", Value: bson.D{{Key: "page", Value: page}}}},
			}},
			{Key: "data", Value: bson.A{
				bson.D{{Key: "$skip", Value: PageSize * page}},
				bson.D{{Key: "$limit", Value: PageSize}},
			}},
		}}},
	}
}

// SetPublic implements Repository.
func (r *MongoRepository) SetPublic(ctx context.Context, id, ownerID string, isPublic bool) (*FileNode, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc fileDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}, {Key: "userId", Value: ownerID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "isPublic", Value: isPublic}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update visibility: %v", ErrRepository, err)
	}
	return doc.node(), nil
}
