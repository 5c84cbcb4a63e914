// Package ai defines the contracts for the vision-extraction and
// inventory-resolution collaborators, plus the typed payloads exchanged with
// them. Payloads are validated here, at the boundary, so nothing downstream
// has to trust provider output blindly.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Resolution actions.
const (
	ActionNewItem      = "NEW_ITEM"
	ActionAttachToItem = "ATTACH_TO_ITEM"
	ActionChildOfItem  = "CHILD_OF_ITEM"
)

// Equipment holds manufacturer identification guessed from a document.
type Equipment struct {
	Manufacturer string `json:"manufacturer,omitempty"`
	ModelNumber  string `json:"modelNumber,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
}

// Financial holds money fields guessed from a receipt or invoice.
type Financial struct {
	Vendor     string `json:"vendor,omitempty"`
	TotalCents int64  `json:"totalCents,omitempty"`
	Currency   string `json:"currency,omitempty"`
}

// Warranty holds warranty terms guessed from a document.
type Warranty struct {
	Provider  string `json:"provider,omitempty"`
	ExpiresOn string `json:"expiresOn,omitempty"` // YYYY-MM-DD
	Terms     string `json:"terms,omitempty"`
}

// ExtractedData is the structured best-effort guess the vision model makes
// about an uploaded document. Any field may be absent.
type ExtractedData struct {
	DocumentType      string     `json:"documentType"`
	Confidence        float64    `json:"confidence"`
	RawText           string     `json:"rawText,omitempty"`
	SuggestedItemName string     `json:"suggestedItemName,omitempty"`
	SuggestedCategory string     `json:"suggestedCategory,omitempty"`
	DocumentDate      string     `json:"documentDate,omitempty"` // YYYY-MM-DD
	Equipment         *Equipment `json:"equipment,omitempty"`
	Financial         *Financial `json:"financial,omitempty"`
	Warranty          *Warranty  `json:"warranty,omitempty"`
}

// Resolution is the reasoning model's decision about how extracted data maps
// onto the existing inventory.
type Resolution struct {
	Action             string  `json:"action"`
	MatchedItemID      string  `json:"matchedItemId,omitempty"`
	Confidence         float64 `json:"confidence,omitempty"`
	Reasoning          string  `json:"reasoning,omitempty"`
	SuggestedEventType string  `json:"suggestedEventType,omitempty"`
}

// InventoryItem is the summary of an existing item handed to the resolver as
// context.
type InventoryItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	ModelNumber  string `json:"modelNumber,omitempty"`
	ParentID     string `json:"parentId,omitempty"`
}

// PlanSuggestion is one AI-suggested recurring maintenance obligation.
type PlanSuggestion struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	IntervalMonths int    `json:"intervalMonths"`
}

// Extractor turns raw document bytes into structured field guesses.
type Extractor interface {
	Extract(ctx context.Context, data []byte, contentType string) (ExtractedData, error)
}

// Resolver decides how extracted data maps onto existing inventory.
type Resolver interface {
	Resolve(ctx context.Context, extracted ExtractedData, inventory []InventoryItem) (Resolution, error)
}

// Planner proposes a recurring maintenance plan for extracted equipment.
type Planner interface {
	SuggestMaintenance(ctx context.Context, extracted ExtractedData) ([]PlanSuggestion, error)
}

// ErrNotConfigured is returned by the placeholder clients.
var ErrNotConfigured = errors.New("ai provider not configured")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

func (PlaceholderClient) Extract(ctx context.Context, data []byte, contentType string) (ExtractedData, error) {
	return ExtractedData{}, ErrNotConfigured
}

func (PlaceholderClient) Resolve(ctx context.Context, extracted ExtractedData, inventory []InventoryItem) (Resolution, error) {
	return Resolution{}, ErrNotConfigured
}

func (PlaceholderClient) SuggestMaintenance(ctx context.Context, extracted ExtractedData) ([]PlanSuggestion, error) {
	return nil, ErrNotConfigured
}

const dateLayout = "2006-01-02"

// ParseDate parses a provider date string; empty or malformed dates yield nil.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	return &parsed
}

// Normalize trims and clamps extracted fields in place. Malformed dates are
// dropped rather than failing the stage; extraction is best-effort.
func (d *ExtractedData) Normalize() {
	d.DocumentType = strings.TrimSpace(strings.ToLower(d.DocumentType))
	d.SuggestedItemName = strings.TrimSpace(d.SuggestedItemName)
	d.SuggestedCategory = strings.TrimSpace(strings.ToLower(d.SuggestedCategory))
	d.Confidence = clamp01(d.Confidence)
	if ParseDate(d.DocumentDate) == nil {
		d.DocumentDate = ""
	}
	if d.Warranty != nil && ParseDate(d.Warranty.ExpiresOn) == nil {
		d.Warranty.ExpiresOn = ""
	}
	if d.Equipment != nil && *d.Equipment == (Equipment{}) {
		d.Equipment = nil
	}
}

// Validate checks a resolution against the action enum and its requirements.
func (r *Resolution) Validate() error {
	r.Action = strings.TrimSpace(strings.ToUpper(r.Action))
	r.MatchedItemID = strings.TrimSpace(r.MatchedItemID)
	r.Confidence = clamp01(r.Confidence)
	switch r.Action {
	case ActionNewItem:
		return nil
	case ActionAttachToItem, ActionChildOfItem:
		if r.MatchedItemID == "" {
			return fmt.Errorf("resolution action %s requires matchedItemId", r.Action)
		}
		return nil
	default:
		return fmt.Errorf("unknown resolution action %q", r.Action)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
