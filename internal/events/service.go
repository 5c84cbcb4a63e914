package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"homefax-backend/internal/items"
)

// Service contains business logic for item history events. Ownership is
// checked by walking up through the item to the property.
type Service struct {
	Repo  Repo
	Items *items.Service
}

// CreateInput carries the caller-supplied fields for a new event.
type CreateInput struct {
	Type        string
	OccurredOn  time.Time
	Description string
	CostCents   *int64
	PerformedBy string
}

// Create records a new event on an item the user owns.
func (s *Service) Create(ctx context.Context, userID, propertyID, itemID string, in CreateInput) (Event, error) {
	if in.OccurredOn.IsZero() {
		return Event{}, ErrInvalidInput
	}

	if _, err := s.Items.Get(ctx, userID, propertyID, itemID); err != nil {
		return Event{}, mapItemErr(err)
	}

	ev := Event{
		ID:          uuid.NewString(),
		ItemID:      itemID,
		Type:        NormalizeType(in.Type),
		OccurredOn:  in.OccurredOn,
		Description: strings.TrimSpace(in.Description),
		CostCents:   in.CostCents,
		PerformedBy: strings.TrimSpace(in.PerformedBy),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, ev); err != nil {
		return Event{}, err
	}
	if indexer, ok := s.Repo.(interface{ IndexItem(itemID, propertyID string) }); ok {
		indexer.IndexItem(itemID, propertyID)
	}
	return ev, nil
}

// ListByItem returns an item's history for an item the user owns.
func (s *Service) ListByItem(ctx context.Context, userID, propertyID, itemID string) ([]Event, error) {
	if _, err := s.Items.Get(ctx, userID, propertyID, itemID); err != nil {
		return nil, mapItemErr(err)
	}
	return s.Repo.ListByItem(ctx, itemID)
}

// Timeline returns every event in a property the user owns, newest-first.
func (s *Service) Timeline(ctx context.Context, userID, propertyID string) ([]Event, error) {
	if _, err := s.Items.List(ctx, userID, propertyID); err != nil {
		return nil, mapItemErr(err)
	}
	return s.Repo.ListByProperty(ctx, propertyID)
}

// Delete removes an event on an item the user owns.
func (s *Service) Delete(ctx context.Context, userID, propertyID, itemID, eventID string) error {
	if _, err := s.Items.Get(ctx, userID, propertyID, itemID); err != nil {
		return mapItemErr(err)
	}
	ev, err := s.Repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.ItemID != itemID {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, eventID)
}

// NormalizeType maps free-form event types onto the known set.
func NormalizeType(eventType string) string {
	switch strings.TrimSpace(strings.ToLower(eventType)) {
	case TypePurchase:
		return TypePurchase
	case TypeRepair:
		return TypeRepair
	case TypeMaintenance:
		return TypeMaintenance
	case TypeInspection:
		return TypeInspection
	case TypeWarranty:
		return TypeWarranty
	default:
		return TypeOther
	}
}

func mapItemErr(err error) error {
	if errors.Is(err, items.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, items.ErrInvalidInput) {
		return ErrInvalidInput
	}
	return err
}
