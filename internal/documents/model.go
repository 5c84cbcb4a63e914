package documents

import (
	"time"

	"homefax-backend/internal/ai"
)

// Document statuses. A document moves pending -> processing ->
// ready_for_review -> confirmed. Discarded and confirmed are terminal; a
// failed extraction sends the document back to pending.
const (
	StatusPending        = "pending"
	StatusProcessing     = "processing"
	StatusReadyForReview = "ready_for_review"
	StatusConfirmed      = "confirmed"
	StatusDiscarded      = "discarded"
)

// Document sources.
const (
	SourceUpload = "upload"
	SourceEmail  = "email"
)

// Document is an uploaded file (receipt, warranty, manual, photo) moving
// through the intake pipeline toward the property's inventory.
type Document struct {
	ID              string
	PropertyID      string
	ItemID          *string
	EventID         *string
	DocType         string
	FileName        string
	StoragePath     string
	ContentType     string
	SizeBytes       int64
	Status          string
	ExtractedText   string
	ExtractedData   *ai.ExtractedData
	ResolveData     *ai.Resolution
	DocumentDate    *time.Time
	Source          string
	SourceEmail     string
	StatusChangedAt time.Time
	CreatedAt       time.Time
}
