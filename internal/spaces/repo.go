package spaces

import "context"

// Repo defines persistence operations for spaces.
type Repo interface {
	Create(ctx context.Context, sp Space) error
	GetByID(ctx context.Context, id string) (Space, error)
	ListByProperty(ctx context.Context, propertyID string) ([]Space, error)
	Update(ctx context.Context, sp Space) error
	Delete(ctx context.Context, id string) error
}
