package events

import "context"

// Repo defines persistence operations for item history events.
type Repo interface {
	Create(ctx context.Context, ev Event) error
	GetByID(ctx context.Context, id string) (Event, error)
	ListByItem(ctx context.Context, itemID string) ([]Event, error)
	ListByProperty(ctx context.Context, propertyID string) ([]Event, error)
	Delete(ctx context.Context, id string) error
}
