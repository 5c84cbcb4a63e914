package maintenance

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Task // id -> task
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Task)}
}

// Create stores a new task.
func (r *MemoryRepo) Create(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[task.ID] = task
	return nil
}

// GetByID returns a task by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.data[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return task, nil
}

// ListByProperty returns a property's tasks soonest-due first.
func (r *MemoryRepo) ListByProperty(ctx context.Context, propertyID, status string) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Task
	for _, task := range r.data {
		if task.PropertyID != propertyID {
			continue
		}
		if status != "" && task.Status != status {
			continue
		}
		out = append(out, task)
	}
	sortByDue(out)
	return out, nil
}

// ListDueBefore returns active tasks due before the cutoff.
func (r *MemoryRepo) ListDueBefore(ctx context.Context, cutoff time.Time) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Task
	for _, task := range r.data {
		if task.Status == StatusActive && task.NextDueAt.Before(cutoff) {
			out = append(out, task)
		}
	}
	sortByDue(out)
	return out, nil
}

// Update rewrites a stored task.
func (r *MemoryRepo) Update(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[task.ID]; !ok {
		return ErrNotFound
	}
	r.data[task.ID] = task
	return nil
}

// Delete removes a task.
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

func sortByDue(tasks []Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].NextDueAt.Before(tasks[j].NextDueAt)
	})
}

var _ Repo = (*MemoryRepo)(nil)
