package events

import "time"

// Event types.
const (
	TypePurchase    = "purchase"
	TypeRepair      = "repair"
	TypeMaintenance = "maintenance"
	TypeInspection  = "inspection"
	TypeWarranty    = "warranty"
	TypeOther       = "other"
)

// Event is one entry in an item's history: a purchase, a repair, a service
// visit, an inspection.
type Event struct {
	ID          string
	ItemID      string
	Type        string
	OccurredOn  time.Time
	Description string
	CostCents   *int64
	PerformedBy string
	CreatedAt   time.Time
}
