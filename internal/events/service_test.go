package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"homefax-backend/internal/items"
	"homefax-backend/internal/properties"
)

func setupEvents(t *testing.T) (*Service, *items.Service, string, string) {
	t.Helper()

	propSvc := &properties.Service{Repo: properties.NewMemoryRepo()}
	itemsSvc := &items.Service{Repo: items.NewMemoryRepo(), Properties: propSvc}
	svc := &Service{Repo: NewMemoryRepo(), Items: itemsSvc}

	userID := "user-1"
	prop, err := propSvc.Create(context.Background(), userID, properties.CreateInput{Name: "Home"})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	return svc, itemsSvc, userID, prop.ID
}

func TestCreateNormalizesType(t *testing.T) {
	svc, itemsSvc, userID, propertyID := setupEvents(t)

	it, err := itemsSvc.Create(context.Background(), userID, propertyID, items.CreateInput{Name: "Furnace"})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	ev, err := svc.Create(context.Background(), userID, propertyID, it.ID, CreateInput{
		Type:       " Repair ",
		OccurredOn: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if ev.Type != TypeRepair {
		t.Fatalf("expected repair, got %s", ev.Type)
	}

	ev, err = svc.Create(context.Background(), userID, propertyID, it.ID, CreateInput{
		Type:       "remodel",
		OccurredOn: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if ev.Type != TypeOther {
		t.Fatalf("expected unknown type mapped to other, got %s", ev.Type)
	}
}

func TestCreateRequiresOccurredOn(t *testing.T) {
	svc, itemsSvc, userID, propertyID := setupEvents(t)

	it, err := itemsSvc.Create(context.Background(), userID, propertyID, items.CreateInput{Name: "Furnace"})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	if _, err := svc.Create(context.Background(), userID, propertyID, it.ID, CreateInput{Type: TypeRepair}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero date, got %v", err)
	}
}

func TestTimelineCollectsEventsAcrossItems(t *testing.T) {
	svc, itemsSvc, userID, propertyID := setupEvents(t)

	furnace, err := itemsSvc.Create(context.Background(), userID, propertyID, items.CreateInput{Name: "Furnace"})
	if err != nil {
		t.Fatalf("create furnace: %v", err)
	}
	fridge, err := itemsSvc.Create(context.Background(), userID, propertyID, items.CreateInput{Name: "Fridge"})
	if err != nil {
		t.Fatalf("create fridge: %v", err)
	}

	older := time.Now().UTC().AddDate(0, -2, 0)
	newer := time.Now().UTC().AddDate(0, -1, 0)
	if _, err := svc.Create(context.Background(), userID, propertyID, furnace.ID, CreateInput{Type: TypeMaintenance, OccurredOn: older}); err != nil {
		t.Fatalf("create furnace event: %v", err)
	}
	if _, err := svc.Create(context.Background(), userID, propertyID, fridge.ID, CreateInput{Type: TypePurchase, OccurredOn: newer}); err != nil {
		t.Fatalf("create fridge event: %v", err)
	}

	timeline, err := svc.Timeline(context.Background(), userID, propertyID)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("expected 2 events, got %d", len(timeline))
	}
	if !timeline[0].OccurredOn.After(timeline[1].OccurredOn) {
		t.Fatalf("expected newest-first ordering")
	}
}

func TestDeleteChecksItemLinkage(t *testing.T) {
	svc, itemsSvc, userID, propertyID := setupEvents(t)

	furnace, err := itemsSvc.Create(context.Background(), userID, propertyID, items.CreateInput{Name: "Furnace"})
	if err != nil {
		t.Fatalf("create furnace: %v", err)
	}
	fridge, err := itemsSvc.Create(context.Background(), userID, propertyID, items.CreateInput{Name: "Fridge"})
	if err != nil {
		t.Fatalf("create fridge: %v", err)
	}

	ev, err := svc.Create(context.Background(), userID, propertyID, furnace.ID, CreateInput{Type: TypeRepair, OccurredOn: time.Now().UTC()})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	// Deleting through the wrong item is a not-found, not a cross-item delete.
	if err := svc.Delete(context.Background(), userID, propertyID, fridge.ID, ev.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), userID, propertyID, furnace.ID, ev.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
}
