package items

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Item // id -> item
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Item)}
}

// Create stores a new item.
func (r *MemoryRepo) Create(ctx context.Context, it Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[it.ID] = it
	return nil
}

// GetByID returns an item by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.data[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

// ListByProperty returns a property's items ordered by creation time.
func (r *MemoryRepo) ListByProperty(ctx context.Context, propertyID string) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Item
	for _, it := range r.data {
		if it.PropertyID == propertyID {
			out = append(out, it)
		}
	}
	sortByCreated(out)
	return out, nil
}

// ListChildren returns the direct children of an item.
func (r *MemoryRepo) ListChildren(ctx context.Context, parentID string) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Item
	for _, it := range r.data {
		if it.ParentID != nil && *it.ParentID == parentID {
			out = append(out, it)
		}
	}
	sortByCreated(out)
	return out, nil
}

// Update rewrites a stored item.
func (r *MemoryRepo) Update(ctx context.Context, it Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[it.ID]; !ok {
		return ErrNotFound
	}
	r.data[it.ID] = it
	return nil
}

// Delete removes an item and, mirroring the schema cascade, its descendants.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	r.deleteTree(id)
	return nil
}

func (r *MemoryRepo) deleteTree(id string) {
	delete(r.data, id)
	for childID, it := range r.data {
		if it.ParentID != nil && *it.ParentID == id {
			r.deleteTree(childID)
		}
	}
}

func sortByCreated(its []Item) {
	sort.Slice(its, func(i, j int) bool {
		return its[i].CreatedAt.Before(its[j].CreatedAt)
	})
}

var _ Repo = (*MemoryRepo)(nil)
