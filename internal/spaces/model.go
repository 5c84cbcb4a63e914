package spaces

import "time"

// Space is a location inside a property (a room, the attic, the garage).
type Space struct {
	ID         string
	PropertyID string
	Name       string
	Kind       string
	CreatedAt  time.Time
}
