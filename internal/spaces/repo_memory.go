package spaces

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Space // id -> space
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Space)}
}

// Create stores a new space.
func (r *MemoryRepo) Create(ctx context.Context, sp Space) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[sp.ID] = sp
	return nil
}

// GetByID returns a space by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Space, error) {
	if err := ctx.Err(); err != nil {
		return Space{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sp, ok := r.data[id]
	if !ok {
		return Space{}, ErrNotFound
	}
	return sp, nil
}

// ListByProperty returns a property's spaces ordered by name.
func (r *MemoryRepo) ListByProperty(ctx context.Context, propertyID string) ([]Space, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Space
	for _, sp := range r.data {
		if sp.PropertyID == propertyID {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Update rewrites a stored space.
func (r *MemoryRepo) Update(ctx context.Context, sp Space) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[sp.ID]; !ok {
		return ErrNotFound
	}
	r.data[sp.ID] = sp
	return nil
}

// Delete removes a space.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
