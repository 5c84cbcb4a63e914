package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"homefax-backend/internal/ai"
	"homefax-backend/internal/events"
	"homefax-backend/internal/items"
	"homefax-backend/internal/properties"
	"homefax-backend/internal/queue"
	"homefax-backend/internal/shared/storage/blob/local"
)

type staticExtractor struct {
	data ai.ExtractedData
	err  error
}

func (s staticExtractor) Extract(ctx context.Context, data []byte, contentType string) (ai.ExtractedData, error) {
	_ = ctx
	_ = data
	_ = contentType
	return s.data, s.err
}

type staticResolver struct {
	res ai.Resolution
	err error
}

func (s staticResolver) Resolve(ctx context.Context, extracted ai.ExtractedData, inventory []ai.InventoryItem) (ai.Resolution, error) {
	_ = ctx
	_ = extracted
	_ = inventory
	return s.res, s.err
}

// captureQueue accepts every send so the pipeline never runs inline during a
// test.
type captureQueue struct {
	sent []queue.Message
}

func (q *captureQueue) Send(ctx context.Context, msg queue.Message) error {
	_ = ctx
	q.sent = append(q.sent, msg)
	return nil
}

type testEnv struct {
	svc        *Service
	queue      *captureQueue
	itemsRepo  items.Repo
	eventsRepo *events.MemoryRepo
	userID     string
	propertyID string
}

func setupService(t *testing.T, extractor ai.Extractor, resolver ai.Resolver) testEnv {
	t.Helper()

	propRepo := properties.NewMemoryRepo()
	propSvc := &properties.Service{Repo: propRepo}

	itemsRepo := items.NewMemoryRepo()
	itemsSvc := &items.Service{Repo: itemsRepo, Properties: propSvc}

	eventsRepo := events.NewMemoryRepo()
	eventsSvc := &events.Service{Repo: eventsRepo, Items: itemsSvc}

	q := &captureQueue{}
	svc := &Service{
		Repo:       NewMemoryRepo(),
		Store:      local.New(t.TempDir()),
		Queue:      q,
		Extractor:  extractor,
		Resolver:   resolver,
		Properties: propSvc,
		Items:      itemsSvc,
		ItemsRepo:  itemsRepo,
		Events:     eventsSvc,
	}

	userID := "user-1"
	prop, err := propSvc.Create(context.Background(), userID, properties.CreateInput{Name: "Home"})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}

	return testEnv{
		svc:        svc,
		queue:      q,
		itemsRepo:  itemsRepo,
		eventsRepo: eventsRepo,
		userID:     userID,
		propertyID: prop.ID,
	}
}

func ingestFile(t *testing.T, env testEnv, fileName, contentType, body string) Document {
	t.Helper()
	doc, err := env.svc.Ingest(context.Background(), env.userID, env.propertyID, IngestInput{
		FileName:    fileName,
		ContentType: contentType,
	}, strings.NewReader(body))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return doc
}

func TestIngestCreatesPendingDocument(t *testing.T) {
	env := setupService(t, staticExtractor{}, staticResolver{})

	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")

	if doc.Status != StatusPending {
		t.Fatalf("expected status pending, got %s", doc.Status)
	}
	if !strings.HasPrefix(doc.StoragePath, env.propertyID+"/") {
		t.Fatalf("storage path %q not namespaced under property", doc.StoragePath)
	}
	if doc.SizeBytes != int64(len("jpeg bytes")) {
		t.Fatalf("expected size %d, got %d", len("jpeg bytes"), doc.SizeBytes)
	}
	if len(env.queue.sent) != 1 || env.queue.sent[0].Stage != queue.StageFull {
		t.Fatalf("expected one full-stage queue message, got %+v", env.queue.sent)
	}

	rc, err := env.svc.Store.Open(context.Background(), doc.StoragePath)
	if err != nil {
		t.Fatalf("open stored blob: %v", err)
	}
	defer rc.Close()
	stored, _ := io.ReadAll(rc)
	if string(stored) != "jpeg bytes" {
		t.Fatalf("stored blob mismatch: %q", stored)
	}
}

func TestIngestRejectsUnsupportedType(t *testing.T) {
	env := setupService(t, staticExtractor{}, staticResolver{})

	_, err := env.svc.Ingest(context.Background(), env.userID, env.propertyID, IngestInput{
		FileName:    "notes.txt",
		ContentType: "text/plain",
	}, strings.NewReader("plain text"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestIngestReclassifiesOctetStreamByExtension(t *testing.T) {
	env := setupService(t, staticExtractor{}, staticResolver{})

	doc := ingestFile(t, env, "invoice.pdf", "application/octet-stream", "%PDF-1.4")
	if doc.ContentType != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", doc.ContentType)
	}
}

func TestIngestRejectsOversizeBody(t *testing.T) {
	env := setupService(t, staticExtractor{}, staticResolver{})
	env.svc.MaxUploadBytes = 8

	_, err := env.svc.Ingest(context.Background(), env.userID, env.propertyID, IngestInput{
		FileName:    "big.jpg",
		ContentType: "image/jpeg",
	}, strings.NewReader("way more than eight bytes"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	// Declared size is rejected before any bytes are read.
	_, err = env.svc.Ingest(context.Background(), env.userID, env.propertyID, IngestInput{
		FileName:     "declared.jpg",
		ContentType:  "image/jpeg",
		DeclaredSize: 9,
	}, strings.NewReader("x"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge for declared size, got %v", err)
	}
}

func TestIngestForeignPropertyNotFound(t *testing.T) {
	env := setupService(t, staticExtractor{}, staticResolver{})

	_, err := env.svc.Ingest(context.Background(), "someone-else", env.propertyID, IngestInput{
		FileName:    "receipt.jpg",
		ContentType: "image/jpeg",
	}, strings.NewReader("jpeg bytes"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExtractStoresDataAndDocType(t *testing.T) {
	extracted := ai.ExtractedData{
		DocumentType:      "receipt",
		Confidence:        0.9,
		SuggestedItemName: "Dishwasher",
		DocumentDate:      "2024-02-15",
	}
	env := setupService(t, staticExtractor{data: extracted}, staticResolver{})
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")

	if err := env.svc.Extract(context.Background(), doc.ID); err != nil {
		t.Fatalf("extract: %v", err)
	}

	got, err := env.svc.Repo.GetByID(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if got.Status != StatusReadyForReview {
		t.Fatalf("expected status ready_for_review, got %s", got.Status)
	}
	if got.DocType != "receipt" {
		t.Fatalf("expected doc type receipt, got %s", got.DocType)
	}
	if got.ExtractedData == nil || got.ExtractedData.SuggestedItemName != "Dishwasher" {
		t.Fatalf("extracted data not stored: %+v", got.ExtractedData)
	}
	if got.DocumentDate == nil || got.DocumentDate.Format("2006-01-02") != "2024-02-15" {
		t.Fatalf("document date not stored: %v", got.DocumentDate)
	}
}

func TestExtractFailureReturnsDocumentToPending(t *testing.T) {
	env := setupService(t, staticExtractor{err: errors.New("vision unavailable")}, staticResolver{})
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")

	if err := env.svc.Extract(context.Background(), doc.ID); err == nil {
		t.Fatalf("expected extract error")
	}

	got, err := env.svc.Repo.GetByID(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("expected status pending after failure, got %s", got.Status)
	}

	// The blob must survive the failure so a retry can re-read it.
	rc, err := env.svc.Store.Open(context.Background(), got.StoragePath)
	if err != nil {
		t.Fatalf("blob missing after failed extraction: %v", err)
	}
	rc.Close()
}

func TestExtractConflictsWhenNotPending(t *testing.T) {
	env := setupService(t, staticExtractor{data: ai.ExtractedData{DocumentType: "receipt"}}, staticResolver{})
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")

	if err := env.svc.Extract(context.Background(), doc.ID); err != nil {
		t.Fatalf("first extract: %v", err)
	}
	if err := env.svc.Extract(context.Background(), doc.ID); !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
}

func TestResolverFailureLeavesDocumentReviewable(t *testing.T) {
	env := setupService(t,
		staticExtractor{data: ai.ExtractedData{DocumentType: "receipt"}},
		staticResolver{err: errors.New("resolver down")},
	)
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")

	if err := env.svc.ProcessFull(context.Background(), doc.ID); err == nil {
		t.Fatalf("expected resolver error to surface")
	}

	got, err := env.svc.Repo.GetByID(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if got.Status != StatusReadyForReview {
		t.Fatalf("expected ready_for_review, got %s", got.Status)
	}
	if got.ResolveData != nil {
		t.Fatalf("expected no stored resolution, got %+v", got.ResolveData)
	}
}

func TestResolveRequiresExtraction(t *testing.T) {
	env := setupService(t, staticExtractor{}, staticResolver{})
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")

	if err := env.svc.Resolve(context.Background(), doc.ID); !errors.Is(err, ErrNoExtraction) {
		t.Fatalf("expected ErrNoExtraction for unextracted document, got %v", err)
	}
}

func runPipeline(t *testing.T, env testEnv, doc Document) {
	t.Helper()
	if err := env.svc.ProcessFull(context.Background(), doc.ID); err != nil {
		t.Fatalf("process full: %v", err)
	}
}

func TestConfirmNewItemCreatesItemAndEvent(t *testing.T) {
	extracted := ai.ExtractedData{
		DocumentType:      "receipt",
		SuggestedItemName: "Bosch Dishwasher",
		SuggestedCategory: "appliance",
		DocumentDate:      "2024-02-15",
		Equipment:         &ai.Equipment{Manufacturer: "Bosch", ModelNumber: "SHX78"},
		Financial:         &ai.Financial{Vendor: "Home Depot", TotalCents: 89999},
	}
	env := setupService(t,
		staticExtractor{data: extracted},
		staticResolver{res: ai.Resolution{
			Action:             ai.ActionNewItem,
			Confidence:         0.8,
			SuggestedEventType: events.TypePurchase,
		}},
	)
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")
	runPipeline(t, env, doc)

	confirmed, err := env.svc.Confirm(context.Background(), env.userID, env.propertyID, doc.ID, ConfirmInput{})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Fatalf("expected status confirmed, got %s", confirmed.Status)
	}
	if confirmed.ItemID == nil || confirmed.EventID == nil {
		t.Fatalf("expected item and event links, got %+v", confirmed)
	}

	it, err := env.itemsRepo.GetByID(context.Background(), *confirmed.ItemID)
	if err != nil {
		t.Fatalf("get created item: %v", err)
	}
	if it.Name != "Bosch Dishwasher" || it.Manufacturer != "Bosch" {
		t.Fatalf("item fields not carried over: %+v", it)
	}
	if it.Category != "appliance" {
		t.Fatalf("expected extracted category, got %s", it.Category)
	}
	if it.PurchasePriceCents == nil || *it.PurchasePriceCents != 89999 {
		t.Fatalf("purchase price not carried over: %+v", it.PurchasePriceCents)
	}

	evs, err := env.eventsRepo.ListByItem(context.Background(), it.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(evs) != 1 {
		t.Fatalf("expected one event, got %d", len(evs))
	}
	if evs[0].Type != events.TypePurchase {
		t.Fatalf("expected purchase event for receipt, got %s", evs[0].Type)
	}
	if evs[0].CostCents == nil || *evs[0].CostCents != 89999 {
		t.Fatalf("event cost not carried over: %+v", evs[0].CostCents)
	}
	if evs[0].OccurredOn.Format("2006-01-02") != "2024-02-15" {
		t.Fatalf("event date should follow the document date, got %s", evs[0].OccurredOn)
	}
}

func TestConfirmAttachToItemReusesExistingItem(t *testing.T) {
	env := setupService(t,
		staticExtractor{data: ai.ExtractedData{DocumentType: "invoice"}},
		staticResolver{},
	)

	existing, err := env.svc.Items.Create(context.Background(), env.userID, env.propertyID, items.CreateInput{Name: "Furnace"})
	if err != nil {
		t.Fatalf("create existing item: %v", err)
	}

	env.svc.Resolver = staticResolver{res: ai.Resolution{
		Action:        ai.ActionAttachToItem,
		MatchedItemID: existing.ID,
	}}

	doc := ingestFile(t, env, "service.pdf", "application/pdf", "%PDF-1.4")
	runPipeline(t, env, doc)

	confirmed, err := env.svc.Confirm(context.Background(), env.userID, env.propertyID, doc.ID, ConfirmInput{})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.ItemID == nil || *confirmed.ItemID != existing.ID {
		t.Fatalf("expected attach to item %s, got %+v", existing.ID, confirmed.ItemID)
	}
	if confirmed.EventID != nil {
		t.Fatalf("no event type was suggested, expected no event, got %v", confirmed.EventID)
	}

	all, err := env.itemsRepo.ListByProperty(context.Background(), env.propertyID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("attach must not create a new item, got %d items", len(all))
	}
}

func TestConfirmChildOfItemCreatesComponent(t *testing.T) {
	env := setupService(t,
		staticExtractor{data: ai.ExtractedData{DocumentType: "receipt", SuggestedItemName: "Water Filter"}},
		staticResolver{},
	)

	parent, err := env.svc.Items.Create(context.Background(), env.userID, env.propertyID, items.CreateInput{Name: "Fridge"})
	if err != nil {
		t.Fatalf("create parent item: %v", err)
	}

	env.svc.Resolver = staticResolver{res: ai.Resolution{
		Action:        ai.ActionChildOfItem,
		MatchedItemID: parent.ID,
	}}

	doc := ingestFile(t, env, "filter.jpg", "image/jpeg", "jpeg bytes")
	runPipeline(t, env, doc)

	confirmed, err := env.svc.Confirm(context.Background(), env.userID, env.propertyID, doc.ID, ConfirmInput{})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	child, err := env.itemsRepo.GetByID(context.Background(), *confirmed.ItemID)
	if err != nil {
		t.Fatalf("get child item: %v", err)
	}
	if child.ParentID == nil || *child.ParentID != parent.ID {
		t.Fatalf("expected child of %s, got %+v", parent.ID, child.ParentID)
	}
	if child.Name != "Water Filter" {
		t.Fatalf("expected suggested name, got %s", child.Name)
	}
}

func TestConfirmDefaultsToNewItemWithoutResolution(t *testing.T) {
	env := setupService(t,
		staticExtractor{data: ai.ExtractedData{DocumentType: "warranty"}},
		staticResolver{err: errors.New("resolver down")},
	)
	doc := ingestFile(t, env, "warranty.pdf", "application/pdf", "%PDF-1.4")

	if err := env.svc.ProcessFull(context.Background(), doc.ID); err == nil {
		t.Fatalf("expected resolver error to surface")
	}

	confirmed, err := env.svc.Confirm(context.Background(), env.userID, env.propertyID, doc.ID, ConfirmInput{})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.ItemID == nil {
		t.Fatalf("expected a new item even without a stored resolution")
	}
	if confirmed.EventID != nil {
		t.Fatalf("no event type was suggested, expected no event, got %v", confirmed.EventID)
	}

	it, err := env.itemsRepo.GetByID(context.Background(), *confirmed.ItemID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if it.Name != "Item from warranty.pdf" {
		t.Fatalf("expected filename fallback name, got %q", it.Name)
	}
	if it.Category != "other" {
		t.Fatalf("expected category fallback, got %q", it.Category)
	}

	evs, err := env.eventsRepo.ListByItem(context.Background(), *confirmed.ItemID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(evs) != 0 {
		t.Fatalf("expected no events, got %+v", evs)
	}
}

func TestConfirmOverridesStoredResolution(t *testing.T) {
	env := setupService(t,
		staticExtractor{data: ai.ExtractedData{DocumentType: "receipt"}},
		staticResolver{res: ai.Resolution{Action: ai.ActionNewItem}},
	)
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")
	runPipeline(t, env, doc)

	confirmed, err := env.svc.Confirm(context.Background(), env.userID, env.propertyID, doc.ID, ConfirmInput{
		ItemName:  "Chosen Name",
		Category:  "plumbing",
		EventType: "repair",
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	it, err := env.itemsRepo.GetByID(context.Background(), *confirmed.ItemID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if it.Name != "Chosen Name" {
		t.Fatalf("expected override name, got %s", it.Name)
	}
	if it.Category != "plumbing" {
		t.Fatalf("expected override category, got %s", it.Category)
	}

	evs, _ := env.eventsRepo.ListByItem(context.Background(), it.ID)
	if len(evs) != 1 || evs[0].Type != events.TypeRepair {
		t.Fatalf("expected repair event override, got %+v", evs)
	}
}

func TestConfirmRequiresReadyForReview(t *testing.T) {
	env := setupService(t, staticExtractor{}, staticResolver{})
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")

	_, err := env.svc.Confirm(context.Background(), env.userID, env.propertyID, doc.ID, ConfirmInput{})
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict for pending document, got %v", err)
	}
}

func TestConfirmRevertsWhenMutationFails(t *testing.T) {
	env := setupService(t,
		staticExtractor{data: ai.ExtractedData{DocumentType: "receipt"}},
		staticResolver{},
	)
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")
	runPipeline(t, env, doc)

	// Point the stored resolution at an item that no longer exists.
	env.svc.Repo.UpdateResolution(context.Background(), doc.ID, ai.Resolution{
		Action:        ai.ActionAttachToItem,
		MatchedItemID: "gone",
	})

	_, err := env.svc.Confirm(context.Background(), env.userID, env.propertyID, doc.ID, ConfirmInput{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, _ := env.svc.Repo.GetByID(context.Background(), doc.ID)
	if got.Status != StatusReadyForReview {
		t.Fatalf("expected revert to ready_for_review, got %s", got.Status)
	}
}

func TestDiscardIsTerminal(t *testing.T) {
	env := setupService(t,
		staticExtractor{data: ai.ExtractedData{DocumentType: "receipt"}},
		staticResolver{},
	)
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")
	runPipeline(t, env, doc)

	discarded, err := env.svc.Discard(context.Background(), env.userID, env.propertyID, doc.ID)
	if err != nil {
		t.Fatalf("discard: %v", err)
	}
	if discarded.Status != StatusDiscarded {
		t.Fatalf("expected discarded, got %s", discarded.Status)
	}

	if _, err := env.svc.Confirm(context.Background(), env.userID, env.propertyID, doc.ID, ConfirmInput{}); !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected confirm after discard to conflict, got %v", err)
	}

	// The original file stays retrievable.
	rc, err := env.svc.Store.Open(context.Background(), discarded.StoragePath)
	if err != nil {
		t.Fatalf("blob missing after discard: %v", err)
	}
	rc.Close()
}

func TestReprocessReturnsDocumentToPipeline(t *testing.T) {
	env := setupService(t,
		staticExtractor{data: ai.ExtractedData{DocumentType: "receipt"}},
		staticResolver{},
	)
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")
	runPipeline(t, env, doc)

	sentBefore := len(env.queue.sent)
	reprocessed, err := env.svc.Reprocess(context.Background(), env.userID, env.propertyID, doc.ID)
	if err != nil {
		t.Fatalf("reprocess: %v", err)
	}
	if reprocessed.Status != StatusPending {
		t.Fatalf("expected pending after reprocess, got %s", reprocessed.Status)
	}
	if len(env.queue.sent) != sentBefore+1 {
		t.Fatalf("expected a new queue message after reprocess")
	}
}

func TestReprocessRetriesAfterFailedExtract(t *testing.T) {
	env := setupService(t, staticExtractor{err: errors.New("vision unavailable")}, staticResolver{})
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")

	if err := env.svc.Extract(context.Background(), doc.ID); err == nil {
		t.Fatalf("expected extract error")
	}

	// The failure leaves the document pending; reprocess must still
	// re-dispatch it instead of demanding a review-stage document.
	sentBefore := len(env.queue.sent)
	reprocessed, err := env.svc.Reprocess(context.Background(), env.userID, env.propertyID, doc.ID)
	if err != nil {
		t.Fatalf("reprocess after failed extract: %v", err)
	}
	if reprocessed.Status != StatusPending {
		t.Fatalf("expected pending, got %s", reprocessed.Status)
	}
	if len(env.queue.sent) != sentBefore+1 {
		t.Fatalf("expected a new queue message after reprocess")
	}

	env.svc.Extractor = staticExtractor{data: ai.ExtractedData{DocumentType: "receipt"}}
	if err := env.svc.Extract(context.Background(), doc.ID); err != nil {
		t.Fatalf("retry extract: %v", err)
	}
	got, _ := env.svc.Repo.GetByID(context.Background(), doc.ID)
	if got.Status != StatusReadyForReview {
		t.Fatalf("expected ready_for_review after retry, got %s", got.Status)
	}
}

func TestSignedURLRejectsForeignStoragePath(t *testing.T) {
	env := setupService(t, staticExtractor{}, staticResolver{})

	doc := Document{
		ID:          "doc-foreign",
		PropertyID:  env.propertyID,
		DocType:     "other",
		FileName:    "sneaky.jpg",
		StoragePath: "other-property/user-1/x/sneaky.jpg",
		ContentType: "image/jpeg",
		Status:      StatusPending,
		Source:      SourceUpload,
		CreatedAt:   time.Now().UTC(),
	}
	if err := env.svc.Repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}

	if _, err := env.svc.SignedURL(context.Background(), env.userID, env.propertyID, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign storage path, got %v", err)
	}
}

func TestDeleteRemovesBlobAndRow(t *testing.T) {
	env := setupService(t, staticExtractor{}, staticResolver{})
	doc := ingestFile(t, env, "receipt.jpg", "image/jpeg", "jpeg bytes")

	if err := env.svc.Delete(context.Background(), env.userID, env.propertyID, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.svc.Repo.GetByID(context.Background(), doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected row gone, got %v", err)
	}
	if _, err := env.svc.Store.Open(context.Background(), doc.StoragePath); err == nil {
		t.Fatalf("expected blob gone")
	}
}

func TestClassifyContentType(t *testing.T) {
	cases := []struct {
		contentType string
		fileName    string
		want        string
	}{
		{"image/jpeg", "a.jpg", "image/jpeg"},
		{"IMAGE/JPEG; charset=binary", "a.jpg", "image/jpeg"},
		{"application/octet-stream", "scan.pdf", "application/pdf"},
		{"", "photo.HEIC", "image/heic"},
		{"application/octet-stream", "unknown.bin", "application/octet-stream"},
	}
	for _, tc := range cases {
		if got := classifyContentType(tc.contentType, tc.fileName); got != tc.want {
			t.Errorf("classifyContentType(%q, %q) = %q, want %q", tc.contentType, tc.fileName, got, tc.want)
		}
	}
}
