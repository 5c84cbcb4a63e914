package spaces

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"homefax-backend/internal/properties"
)

// Space kinds.
const (
	KindRoom    = "room"
	KindOutdoor = "outdoor"
	KindStorage = "storage"
	KindSystem  = "system"
)

// Service contains business logic for spaces. Ownership is checked by
// walking up to the property.
type Service struct {
	Repo       Repo
	Properties *properties.Service
}

// Create records a new space under a property the user owns.
func (s *Service) Create(ctx context.Context, userID, propertyID, name, kind string) (Space, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Space{}, ErrInvalidInput
	}
	kind = normalizeKind(kind)

	if _, err := s.Properties.Get(ctx, userID, propertyID); err != nil {
		return Space{}, mapPropertyErr(err)
	}

	sp := Space{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		Name:       name,
		Kind:       kind,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, sp); err != nil {
		return Space{}, err
	}
	return sp, nil
}

// List returns the spaces in a property the user owns.
func (s *Service) List(ctx context.Context, userID, propertyID string) ([]Space, error) {
	if _, err := s.Properties.Get(ctx, userID, propertyID); err != nil {
		return nil, mapPropertyErr(err)
	}
	return s.Repo.ListByProperty(ctx, propertyID)
}

// Update renames or rekinds a space the user owns.
func (s *Service) Update(ctx context.Context, userID, propertyID, spaceID string, name, kind *string) (Space, error) {
	sp, err := s.get(ctx, userID, propertyID, spaceID)
	if err != nil {
		return Space{}, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return Space{}, ErrInvalidInput
		}
		sp.Name = trimmed
	}
	if kind != nil {
		sp.Kind = normalizeKind(*kind)
	}

	if err := s.Repo.Update(ctx, sp); err != nil {
		return Space{}, err
	}
	return sp, nil
}

// Delete removes a space the user owns. Items in it keep existing without a
// space.
func (s *Service) Delete(ctx context.Context, userID, propertyID, spaceID string) error {
	if _, err := s.get(ctx, userID, propertyID, spaceID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, spaceID)
}

func (s *Service) get(ctx context.Context, userID, propertyID, spaceID string) (Space, error) {
	if _, err := s.Properties.Get(ctx, userID, propertyID); err != nil {
		return Space{}, mapPropertyErr(err)
	}
	sp, err := s.Repo.GetByID(ctx, spaceID)
	if err != nil {
		return Space{}, err
	}
	if sp.PropertyID != propertyID {
		return Space{}, ErrNotFound
	}
	return sp, nil
}

func normalizeKind(kind string) string {
	switch strings.TrimSpace(strings.ToLower(kind)) {
	case KindOutdoor:
		return KindOutdoor
	case KindStorage:
		return KindStorage
	case KindSystem:
		return KindSystem
	default:
		return KindRoom
	}
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
