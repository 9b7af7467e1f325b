package files

import "context"

// ListQuery selects one page of a user's nodes.
type ListQuery struct {
	OwnerID string
	// ParentID filters by exact parent when non-empty; RootID selects the top level.
	ParentID string
	Page     int
}

// Repository persists file nodes.
type Repository interface {
	// Insert assigns node.ID and stores the node.
	Insert(ctx context.Context, node *FileNode) error

	// FindByID looks a node up without any ownership filter.
	FindByID(ctx context.Context, id string) (*FileNode, error)

	// FindOwned looks a node up scoped to ownerID.
	FindOwned(ctx context.Context, id, ownerID string) (*FileNode, error)

	// List returns a page of nodes ordered newest first.
	List(ctx context.Context, q ListQuery) (Page, error)

	// SetPublic updates the visibility of an owned node and returns it.
	SetPublic(ctx context.Context, id, ownerID string, isPublic bool) (*FileNode, error)
}
