package items

import (
	"context"
	"errors"
	"testing"

	"homefax-backend/internal/properties"
)

func setupItems(t *testing.T) (*Service, string, string) {
	t.Helper()

	propSvc := &properties.Service{Repo: properties.NewMemoryRepo()}
	svc := &Service{Repo: NewMemoryRepo(), Properties: propSvc}

	userID := "user-1"
	prop, err := propSvc.Create(context.Background(), userID, properties.CreateInput{Name: "Home"})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	return svc, userID, prop.ID
}

func TestUpdateRejectsParentCycle(t *testing.T) {
	svc, userID, propertyID := setupItems(t)

	fridge, err := svc.Create(context.Background(), userID, propertyID, CreateInput{Name: "Fridge"})
	if err != nil {
		t.Fatalf("create fridge: %v", err)
	}
	filter, err := svc.Create(context.Background(), userID, propertyID, CreateInput{Name: "Filter", ParentID: &fridge.ID})
	if err != nil {
		t.Fatalf("create filter: %v", err)
	}

	// Fridge cannot become a child of its own component.
	if _, err := svc.Update(context.Background(), userID, propertyID, fridge.ID, UpdateInput{ParentID: &filter.ID}); !errors.Is(err, ErrParentCycle) {
		t.Fatalf("expected ErrParentCycle, got %v", err)
	}

	// An item cannot be its own parent.
	if _, err := svc.Update(context.Background(), userID, propertyID, fridge.ID, UpdateInput{ParentID: &fridge.ID}); !errors.Is(err, ErrParentCycle) {
		t.Fatalf("expected ErrParentCycle for self-parent, got %v", err)
	}
}

func TestCreateRejectsParentFromAnotherProperty(t *testing.T) {
	svc, userID, propertyID := setupItems(t)

	other, err := svc.Properties.Create(context.Background(), userID, properties.CreateInput{Name: "Cabin"})
	if err != nil {
		t.Fatalf("create other property: %v", err)
	}
	foreignParent, err := svc.Create(context.Background(), userID, other.ID, CreateInput{Name: "Stove"})
	if err != nil {
		t.Fatalf("create foreign parent: %v", err)
	}

	if _, err := svc.Create(context.Background(), userID, propertyID, CreateInput{Name: "Burner", ParentID: &foreignParent.ID}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCascadesToComponents(t *testing.T) {
	svc, userID, propertyID := setupItems(t)

	fridge, err := svc.Create(context.Background(), userID, propertyID, CreateInput{Name: "Fridge"})
	if err != nil {
		t.Fatalf("create fridge: %v", err)
	}
	filter, err := svc.Create(context.Background(), userID, propertyID, CreateInput{Name: "Filter", ParentID: &fridge.ID})
	if err != nil {
		t.Fatalf("create filter: %v", err)
	}

	if err := svc.Delete(context.Background(), userID, propertyID, fridge.ID); err != nil {
		t.Fatalf("delete fridge: %v", err)
	}

	if _, err := svc.Repo.GetByID(context.Background(), filter.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected component deleted with its parent, got %v", err)
	}
}

func TestClearParentDetachesComponent(t *testing.T) {
	svc, userID, propertyID := setupItems(t)

	fridge, err := svc.Create(context.Background(), userID, propertyID, CreateInput{Name: "Fridge"})
	if err != nil {
		t.Fatalf("create fridge: %v", err)
	}
	filter, err := svc.Create(context.Background(), userID, propertyID, CreateInput{Name: "Filter", ParentID: &fridge.ID})
	if err != nil {
		t.Fatalf("create filter: %v", err)
	}

	updated, err := svc.Update(context.Background(), userID, propertyID, filter.ID, UpdateInput{ClearParent: true})
	if err != nil {
		t.Fatalf("clear parent: %v", err)
	}
	if updated.ParentID != nil {
		t.Fatalf("expected parent cleared, got %v", updated.ParentID)
	}

	children, err := svc.Children(context.Background(), userID, propertyID, fridge.ID)
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(children) != 0 {
		t.Fatalf("expected no children after detach, got %d", len(children))
	}
}

func TestGetHidesOtherUsersItems(t *testing.T) {
	svc, userID, propertyID := setupItems(t)

	it, err := svc.Create(context.Background(), userID, propertyID, CreateInput{Name: "Fridge"})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	if _, err := svc.Get(context.Background(), "someone-else", propertyID, it.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
}
