package documents

import (
	"context"
	"time"

	"homefax-backend/internal/ai"
)

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	ListByProperty(ctx context.Context, propertyID, status string, limit, offset int) ([]Document, error)

	// UpdateStatusIf transitions id from one status to another. It returns
	// ErrStatusConflict when the document is not currently in from, which is
	// how concurrent workers avoid double-processing.
	UpdateStatusIf(ctx context.Context, id, from, to string, at time.Time) error
	SetStatus(ctx context.Context, id, to string, at time.Time) error

	UpdateExtraction(ctx context.Context, id string, extracted ai.ExtractedData, docType string, documentDate *time.Time) error
	UpdateResolution(ctx context.Context, id string, res ai.Resolution) error
	UpdateLinks(ctx context.Context, id string, itemID, eventID *string) error

	// ResetStuckProcessing flips documents stuck in processing since before
	// the cutoff back to pending and reports how many were reset.
	ResetStuckProcessing(ctx context.Context, cutoff time.Time) (int, error)

	Delete(ctx context.Context, id string) error
}
