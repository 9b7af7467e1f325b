package files

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryRepository keeps nodes in process memory with the same ordering and
// paging semantics as MongoRepository.
type MemoryRepository struct {
	mu    sync.RWMutex
	nodes map[string]*FileNode
	order []string // insertion order, oldest first
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nodes: make(map[string]*FileNode)}
}

// Insert implements Repository.
func (r *MemoryRepository) Insert(ctx context.Context, node *FileNode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	node.ID = bson.NewObjectID().Hex()
	if IsRoot(node.ParentID) {
		node.ParentID = RootID
	}

	stored := *node
	r.nodes[node.ID] = &stored
	r.order = append(r.order, node.ID)
	return nil
}

// FindByID implements Repository.
func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*FileNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	node, ok := r.nodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *node
	return &out, nil
}

// FindOwned implements Repository.
func (r *MemoryRepository) FindOwned(ctx context.Context, id, ownerID string) (*FileNode, error) {
	node, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if node.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return node, nil
}

// List implements Repository.
func (r *MemoryRepository) List(ctx context.Context, q ListQuery) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	page := max(q.Page, 0)
	result := Page{Items: []FileNode{}, Page: page}

	r.mu.RLock()
	defer r.mu.RUnlock()

	skip := page * PageSize
	for i := len(r.order) - 1; i >= 0; i-- {
		node := r.nodes[r.order[i]]
		if node.OwnerID != q.OwnerID {
			continue
		}
		if q.ParentID != "" && node.ParentID != q.ParentID {
			continue
		}

		result.Total++
		if skip > 0 {
			skip--
			continue
		}
		if len(result.Items) < PageSize {
			result.Items = append(result.Items, *node)
		}
	}

	return result, nil
}

// SetPublic implements Repository.
func (r *MemoryRepository) SetPublic(ctx context.Context, id, ownerID string, isPublic bool) (*FileNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[id]
	if !ok || node.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	node.IsPublic = isPublic

	out := *node
	return &out, nil
}
