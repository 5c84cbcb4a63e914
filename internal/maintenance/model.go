package maintenance

import "time"

// Task statuses.
const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusDismissed = "dismissed"
)

// Task sources.
const (
	SourceManual      = "manual"
	SourceAISuggested = "ai_suggested"
)

// Task is a recurring maintenance obligation for a property or one of its
// items: change the furnace filter, flush the water heater, clean the
// gutters.
type Task struct {
	ID              string
	PropertyID      string
	ItemID          *string
	Name            string
	Description     string
	IntervalMonths  int
	NextDueAt       time.Time
	LastCompletedAt *time.Time
	Source          string
	Status          string
	CreatedAt       time.Time
}
