package items

import "time"

// Item is a physical thing tracked in a property's inventory: an appliance,
// a system, a piece of furniture, or a component of another item.
type Item struct {
	ID                 string
	PropertyID         string
	SpaceID            *string
	ParentID           *string
	Name               string
	Category           string
	Manufacturer       string
	ModelNumber        string
	SerialNumber       string
	AcquiredOn         *time.Time
	WarrantyExpiresOn  *time.Time
	PurchasePriceCents *int64
	Notes              string
	CreatedAt          time.Time
}
