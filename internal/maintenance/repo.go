package maintenance

import (
	"context"
	"time"
)

// Repo defines persistence operations for maintenance tasks.
type Repo interface {
	Create(ctx context.Context, task Task) error
	GetByID(ctx context.Context, id string) (Task, error)
	ListByProperty(ctx context.Context, propertyID, status string) ([]Task, error)

	// ListDueBefore returns active tasks across all properties due before the
	// cutoff, for the overdue sweep.
	ListDueBefore(ctx context.Context, cutoff time.Time) ([]Task, error)

	Update(ctx context.Context, task Task) error
	Delete(ctx context.Context, id string) error
}
