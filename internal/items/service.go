package items

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"homefax-backend/internal/properties"
)

// Service contains business logic for inventory items. Ownership is checked
// by walking up to the property.
type Service struct {
	Repo       Repo
	Properties *properties.Service
}

// CreateInput carries the caller-supplied fields for a new item.
type CreateInput struct {
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
}

// UpdateInput carries a partial item update. Nil pointers leave the stored
// value unchanged; SpaceID and ParentID use the clear flags to distinguish
// "unchanged" from "set to none".
type UpdateInput struct {
	SpaceID            *string
	ClearSpace         bool
	ParentID           *string
	ClearParent        bool
	Name               *string
	Category           *string
	Manufacturer       *string
	ModelNumber        *string
	SerialNumber       *string
	AcquiredOn         *time.Time
	WarrantyExpiresOn  *time.Time
	PurchasePriceCents *int64
	Notes              *string
}

// Create records a new item under a property the user owns.
func (s *Service) Create(ctx context.Context, userID, propertyID string, in CreateInput) (Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Item{}, ErrInvalidInput
	}

	if _, err := s.Properties.Get(ctx, userID, propertyID); err != nil {
		return Item{}, mapPropertyErr(err)
	}

	if in.ParentID != nil {
		parent, err := s.Repo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return Item{}, err
		}
		if parent.PropertyID != propertyID {
			return Item{}, ErrNotFound
		}
	}

	it := Item{
		ID:                 uuid.NewString(),
		PropertyID:         propertyID,
		SpaceID:            in.SpaceID,
		ParentID:           in.ParentID,
		Name:               in.Name,
		Category:           normalizeCategory(in.Category),
		Manufacturer:       strings.TrimSpace(in.Manufacturer),
		ModelNumber:        strings.TrimSpace(in.ModelNumber),
		SerialNumber:       strings.TrimSpace(in.SerialNumber),
		AcquiredOn:         in.AcquiredOn,
		WarrantyExpiresOn:  in.WarrantyExpiresOn,
		PurchasePriceCents: in.PurchasePriceCents,
		Notes:              strings.TrimSpace(in.Notes),
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

// Get returns an item in a property the user owns.
func (s *Service) Get(ctx context.Context, userID, propertyID, itemID string) (Item, error) {
	if _, err := s.Properties.Get(ctx, userID, propertyID); err != nil {
		return Item{}, mapPropertyErr(err)
	}
	it, err := s.Repo.GetByID(ctx, itemID)
	if err != nil {
		return Item{}, err
	}
	if it.PropertyID != propertyID {
		return Item{}, ErrNotFound
	}
	return it, nil
}

// List returns the items in a property the user owns.
func (s *Service) List(ctx context.Context, userID, propertyID string) ([]Item, error) {
	if _, err := s.Properties.Get(ctx, userID, propertyID); err != nil {
		return nil, mapPropertyErr(err)
	}
	return s.Repo.ListByProperty(ctx, propertyID)
}

// Children returns the direct components of an item the user owns.
func (s *Service) Children(ctx context.Context, userID, propertyID, itemID string) ([]Item, error) {
	if _, err := s.Get(ctx, userID, propertyID, itemID); err != nil {
		return nil, err
	}
	return s.Repo.ListChildren(ctx, itemID)
}

// Update applies a partial update to an item the user owns. Reparenting is
// validated so the parent chain stays a forest.
func (s *Service) Update(ctx context.Context, userID, propertyID, itemID string, in UpdateInput) (Item, error) {
	it, err := s.Get(ctx, userID, propertyID, itemID)
	if err != nil {
		return Item{}, err
	}

	if in.ClearParent {
		it.ParentID = nil
	} else if in.ParentID != nil {
		if err := s.checkParent(ctx, it, *in.ParentID); err != nil {
			return Item{}, err
		}
		it.ParentID = in.ParentID
	}

	if in.ClearSpace {
		it.SpaceID = nil
	} else if in.SpaceID != nil {
		it.SpaceID = in.SpaceID
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Item{}, ErrInvalidInput
		}
		it.Name = name
	}
	if in.Category != nil {
		it.Category = normalizeCategory(*in.Category)
	}
	if in.Manufacturer != nil {
		it.Manufacturer = strings.TrimSpace(*in.Manufacturer)
	}
	if in.ModelNumber != nil {
		it.ModelNumber = strings.TrimSpace(*in.ModelNumber)
	}
	if in.SerialNumber != nil {
		it.SerialNumber = strings.TrimSpace(*in.SerialNumber)
	}
	if in.AcquiredOn != nil {
		it.AcquiredOn = in.AcquiredOn
	}
	if in.WarrantyExpiresOn != nil {
		it.WarrantyExpiresOn = in.WarrantyExpiresOn
	}
	if in.PurchasePriceCents != nil {
		it.PurchasePriceCents = in.PurchasePriceCents
	}
	if in.Notes != nil {
		it.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := s.Repo.Update(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

// Delete removes an item the user owns. Components cascade.
func (s *Service) Delete(ctx context.Context, userID, propertyID, itemID string) error {
	if _, err := s.Get(ctx, userID, propertyID, itemID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, itemID)
}

// checkParent verifies the candidate parent exists in the same property and
// that adopting it does not create a cycle through the parent chain.
func (s *Service) checkParent(ctx context.Context, it Item, parentID string) error {
	if parentID == it.ID {
		return ErrParentCycle
	}

	current := parentID
	for depth := 0; current != ""; depth++ {
		if depth > 64 {
			return ErrParentCycle
		}
		ancestor, err := s.Repo.GetByID(ctx, current)
		if err != nil {
			return err
		}
		if ancestor.PropertyID != it.PropertyID {
			return ErrNotFound
		}
		if ancestor.ID == it.ID {
			return ErrParentCycle
		}
		if ancestor.ParentID == nil {
			break
		}
		current = *ancestor.ParentID
	}
	return nil
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(strings.ToLower(category))
	if category == "" {
		return "other"
	}
	return category
}

func mapPropertyErr(err error) error {
	if errors.Is(err, properties.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, properties.ErrInvalidInput) {
		return ErrInvalidInput
	}
	return err
}
