package properties

import "time"

// Property represents a home owned by a user. Everything else in the
// inventory hangs off a property.
type Property struct {
	ID        string
	UserID    string
	Name      string
	Address   string
	YearBuilt *int
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
