package properties

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateValidatesYearBuilt(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	tooOld := 1500
	if _, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "Home", YearBuilt: &tooOld}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for year 1500, got %v", err)
	}

	future := time.Now().Year() + 5
	if _, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "Home", YearBuilt: &future}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for far-future year, got %v", err)
	}

	ok := 1987
	p, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "Home", YearBuilt: &ok})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.YearBuilt == nil || *p.YearBuilt != 1987 {
		t.Fatalf("year built not stored: %v", p.YearBuilt)
	}
}

func TestGetHidesOtherUsersProperties(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	p, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "Home"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(context.Background(), "user-2", p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	p, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "Home", Address: "1 Main St"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "Lake House"
	updated, err := svc.Update(context.Background(), "user-1", p.ID, UpdateInput{Name: &newName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Lake House" {
		t.Fatalf("expected updated name, got %s", updated.Name)
	}
	if updated.Address != "1 Main St" {
		t.Fatalf("expected address untouched, got %s", updated.Address)
	}

	empty := "  "
	if _, err := svc.Update(context.Background(), "user-1", p.ID, UpdateInput{Name: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
}
