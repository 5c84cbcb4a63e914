package events

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo. The property index is
// maintained alongside so ListByProperty works without a join.
type MemoryRepo struct {
	mu         sync.RWMutex
	data       map[string]Event  // id -> event
	properties map[string]string // itemId -> propertyId
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data:       make(map[string]Event),
		properties: make(map[string]string),
	}
}

// IndexItem records the property an item belongs to, for ListByProperty.
func (r *MemoryRepo) IndexItem(itemID, propertyID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.properties[itemID] = propertyID
}

// Create stores a new event.
func (r *MemoryRepo) Create(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[ev.ID] = ev
	return nil
}

// GetByID returns an event by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.data[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return ev, nil
}

// ListByItem returns an item's events newest-first.
func (r *MemoryRepo) ListByItem(ctx context.Context, itemID string) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Event
	for _, ev := range r.data {
		if ev.ItemID == itemID {
			out = append(out, ev)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// ListByProperty returns every event in a property newest-first.
func (r *MemoryRepo) ListByProperty(ctx context.Context, propertyID string) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Event
	for _, ev := range r.data {
		if r.properties[ev.ItemID] == propertyID {
			out = append(out, ev)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// Delete removes an event.
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

func sortNewestFirst(evs []Event) {
	sort.Slice(evs, func(i, j int) bool {
		if !evs[i].OccurredOn.Equal(evs[j].OccurredOn) {
			return evs[i].OccurredOn.After(evs[j].OccurredOn)
		}
		return evs[i].CreatedAt.After(evs[j].CreatedAt)
	})
}

var _ Repo = (*MemoryRepo)(nil)
