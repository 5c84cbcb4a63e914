package items

import "context"

// Repo defines persistence operations for inventory items.
type Repo interface {
	Create(ctx context.Context, it Item) error
	GetByID(ctx context.Context, id string) (Item, error)
	ListByProperty(ctx context.Context, propertyID string) ([]Item, error)
	ListChildren(ctx context.Context, parentID string) ([]Item, error)
	Update(ctx context.Context, it Item) error
	Delete(ctx context.Context, id string) error
}
