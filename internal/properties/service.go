package properties

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for properties.
type Service struct {
	Repo Repo
}

// CreateInput carries the caller-supplied fields for a new property.
type CreateInput struct {
	Name      string
	Address   string
	YearBuilt *int
	Notes     string
}

// UpdateInput carries the caller-supplied fields for a property update. Nil
// pointers leave the stored value unchanged.
type UpdateInput struct {
	Name      *string
	Address   *string
	YearBuilt *int
	Notes     *string
}

// Create records a new property for the user.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Property, error) {
	in.Name = strings.TrimSpace(in.Name)
	if userID == "" || in.Name == "" {
		return Property{}, ErrInvalidInput
	}
	if in.YearBuilt != nil && (*in.YearBuilt < 1700 || *in.YearBuilt > time.Now().Year()+1) {
		return Property{}, ErrInvalidInput
	}

	now := time.Now().UTC()
	p := Property{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      in.Name,
		Address:   strings.TrimSpace(in.Address),
		YearBuilt: in.YearBuilt,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return Property{}, err
	}
	return p, nil
}

// Get returns a property the user owns. Other users' properties are reported
// as not found.
func (s *Service) Get(ctx context.Context, userID, propertyID string) (Property, error) {
	p, err := s.Repo.GetByID(ctx, propertyID)
	if err != nil {
		return Property{}, err
	}
	if p.UserID != userID {
		return Property{}, ErrNotFound
	}
	return p, nil
}

// List returns the user's properties.
func (s *Service) List(ctx context.Context, userID string) ([]Property, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Update applies a partial update to a property the user owns.
func (s *Service) Update(ctx context.Context, userID, propertyID string, in UpdateInput) (Property, error) {
	p, err := s.Get(ctx, userID, propertyID)
	if err != nil {
		return Property{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Property{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.Address != nil {
		p.Address = strings.TrimSpace(*in.Address)
	}
	if in.YearBuilt != nil {
		if *in.YearBuilt < 1700 || *in.YearBuilt > time.Now().Year()+1 {
			return Property{}, ErrInvalidInput
		}
		p.YearBuilt = in.YearBuilt
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, p); err != nil {
		return Property{}, err
	}
	return p, nil
}

// Delete removes a property the user owns along with everything under it.
func (s *Service) Delete(ctx context.Context, userID, propertyID string) error {
	if _, err := s.Get(ctx, userID, propertyID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, propertyID)
}
