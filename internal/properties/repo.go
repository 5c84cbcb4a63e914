package properties

import "context"

// Repo defines persistence operations for properties.
type Repo interface {
	Create(ctx context.Context, p Property) error
	GetByID(ctx context.Context, id string) (Property, error)
	ListByUser(ctx context.Context, userID string) ([]Property, error)
	Update(ctx context.Context, p Property) error
	Delete(ctx context.Context, id string) error
}
