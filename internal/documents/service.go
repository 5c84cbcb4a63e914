package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"homefax-backend/internal/ai"
	"homefax-backend/internal/events"
	"homefax-backend/internal/items"
	"homefax-backend/internal/properties"
	"homefax-backend/internal/queue"
	"homefax-backend/internal/shared/metrics"
	"homefax-backend/internal/shared/storage/blob"
	"homefax-backend/internal/shared/telemetry"
	"homefax-backend/internal/shared/util"
)

const defaultMaxUploadBytes = 50 << 20 // 50MB

// inlineTimeout bounds pipeline runs kicked off in-process when no queue is
// configured.
const inlineTimeout = 5 * time.Minute

// Service contains business logic for documents and drives the intake
// pipeline: ingest -> extract -> resolve -> confirm.
type Service struct {
	Repo      Repo
	Store     blob.Store
	Queue     queue.Client // nil means pipeline stages run in-process
	Extractor ai.Extractor
	Resolver  ai.Resolver

	Properties *properties.Service
	Items      *items.Service
	ItemsRepo  items.Repo
	Events     *events.Service

	SignedURLTTL   time.Duration
	MaxUploadBytes int64
}

// IngestInput carries the caller-supplied fields for a new document.
type IngestInput struct {
	FileName     string
	ContentType  string
	DeclaredSize int64
	Source       string
	SourceEmail  string
}

// ConfirmInput carries user overrides applied at confirmation time. Empty
// fields fall back to the stored resolution, then to NEW_ITEM.
type ConfirmInput struct {
	Action        string
	MatchedItemID string
	ItemName      string
	Category      string
	SpaceID       *string
	EventType     string
}

// Ingest stores the uploaded file and creates a pending document, then hands
// it to the pipeline.
func (s *Service) Ingest(ctx context.Context, userID, propertyID string, in IngestInput, r io.Reader) (Document, error) {
	in.FileName = strings.TrimSpace(in.FileName)
	if in.FileName == "" {
		return Document{}, ErrInvalidInput
	}

	contentType := classifyContentType(in.ContentType, in.FileName)
	if !allowedContentType(contentType) {
		return Document{}, ErrUnsupportedType
	}

	maxBytes := s.maxUploadBytes()
	if in.DeclaredSize > maxBytes {
		return Document{}, ErrTooLarge
	}

	if _, err := s.Properties.Get(ctx, userID, propertyID); err != nil {
		return Document{}, mapPropertyErr(err)
	}

	fileName, err := util.SanitizeFileName(in.FileName)
	if err != nil {
		return Document{}, ErrInvalidInput
	}
	storagePath := fmt.Sprintf("%s/%s/%s/%s", propertyID, userID, uuid.NewString(), fileName)

	// The blob is written before the row so a failed insert never leaves a
	// document pointing at nothing.
	written, err := s.Store.Save(ctx, storagePath, contentType, io.LimitReader(r, maxBytes+1))
	if err != nil {
		return Document{}, err
	}
	if written > maxBytes {
		if delErr := s.Store.Delete(ctx, storagePath); delErr != nil {
			telemetry.Warn("orphan blob cleanup failed", map[string]any{
				"storage_path": storagePath,
				"error":        delErr.Error(),
			})
		}
		return Document{}, ErrTooLarge
	}

	source := in.Source
	if source == "" {
		source = SourceUpload
	}

	now := time.Now().UTC()
	doc := Document{
		ID:              uuid.NewString(),
		PropertyID:      propertyID,
		DocType:         "other",
		FileName:        fileName,
		StoragePath:     storagePath,
		ContentType:     contentType,
		SizeBytes:       written,
		Status:          StatusPending,
		Source:          source,
		SourceEmail:     strings.TrimSpace(in.SourceEmail),
		StatusChangedAt: now,
		CreatedAt:       now,
	}

	// An insert failure orphans the blob. That is accepted; no compensating
	// delete so a retried upload can never race a cleanup of its own path.
	if err := s.Repo.Create(ctx, doc); err != nil {
		telemetry.Warn("document insert failed, blob orphaned", map[string]any{
			"storage_path": storagePath,
			"error":        err.Error(),
		})
		return Document{}, err
	}

	metrics.IncDocumentsIngested()
	s.dispatch(ctx, doc.ID)
	return doc, nil
}

// dispatch hands a pending document to the pipeline: via the queue when one
// is configured, in-process otherwise. Queue failures degrade to in-process
// so the document never sits pending forever.
func (s *Service) dispatch(ctx context.Context, documentID string) {
	if s.Queue != nil {
		msg := queue.Message{
			DocumentID: documentID,
			Stage:      queue.StageFull,
			RequestID:  requestIDFromContext(ctx),
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		err := s.Queue.Send(ctx, msg)
		if err == nil {
			return
		}
		telemetry.Warn("queue send failed, processing inline", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), inlineTimeout)
		defer cancel()
		if err := s.ProcessFull(ctx, documentID); err != nil {
			telemetry.Error("inline pipeline run failed", map[string]any{
				"document_id": documentID,
				"error":       err.Error(),
			})
		}
	}()
}

// ProcessFull runs extraction and resolution back to back.
func (s *Service) ProcessFull(ctx context.Context, documentID string) error {
	if err := s.Extract(ctx, documentID); err != nil {
		return err
	}
	return s.Resolve(ctx, documentID)
}

// Extract claims a pending document, runs the vision model over its blob, and
// parks the document for review. A failed extraction returns the document to
// pending with the blob intact.
func (s *Service) Extract(ctx context.Context, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.Repo.UpdateStatusIf(ctx, documentID, StatusPending, StatusProcessing, time.Now().UTC()); err != nil {
		return err
	}
	metrics.IncExtractStarted()
	started := time.Now()

	data, err := s.readBlob(ctx, doc.StoragePath)
	if err != nil {
		return s.failExtract(ctx, documentID, err)
	}

	extracted, err := s.Extractor.Extract(ctx, data, doc.ContentType)
	if err != nil {
		return s.failExtract(ctx, documentID, err)
	}

	docType := extracted.DocumentType
	if docType == "" {
		docType = "other"
	}
	if err := s.Repo.UpdateExtraction(ctx, documentID, extracted, docType, ai.ParseDate(extracted.DocumentDate)); err != nil {
		return s.failExtract(ctx, documentID, err)
	}

	if err := s.Repo.UpdateStatusIf(ctx, documentID, StatusProcessing, StatusReadyForReview, time.Now().UTC()); err != nil {
		return err
	}

	metrics.IncExtractCompleted()
	metrics.ObserveExtractDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("document extracted", map[string]any{
		"document_id":       documentID,
		"doc_type":          docType,
		"confidence":        extracted.Confidence,
		"status_transition": StatusProcessing + "->" + StatusReadyForReview,
	})
	return nil
}

func (s *Service) failExtract(ctx context.Context, documentID string, cause error) error {
	metrics.IncExtractFailed()
	if err := s.Repo.UpdateStatusIf(ctx, documentID, StatusProcessing, StatusPending, time.Now().UTC()); err != nil {
		telemetry.Error("failed to return document to pending", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
	}
	telemetry.Error("document extraction failed", map[string]any{
		"document_id":       documentID,
		"error":             cause.Error(),
		"status_transition": StatusProcessing + "->" + StatusPending,
	})
	return cause
}

// Resolve maps a document's extraction onto the property's inventory and
// stores the advisory resolution. The document's status never changes here; a
// resolver failure leaves it reviewable and confirmation falls back to
// NEW_ITEM.
func (s *Service) Resolve(ctx context.Context, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.Status == StatusConfirmed || doc.Status == StatusDiscarded {
		return ErrStatusConflict
	}
	if doc.ExtractedData == nil {
		return ErrNoExtraction
	}

	inventory, err := s.inventorySummaries(ctx, doc.PropertyID)
	if err != nil {
		return err
	}

	resolution, err := s.Resolver.Resolve(ctx, *doc.ExtractedData, inventory)
	if err != nil {
		metrics.IncResolveFailed()
		telemetry.Warn("document resolution failed, leaving document reviewable", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
		return err
	}

	if err := s.Repo.UpdateResolution(ctx, documentID, resolution); err != nil {
		return err
	}
	metrics.IncResolveCompleted()
	telemetry.Info("document resolved", map[string]any{
		"document_id": documentID,
		"action":      resolution.Action,
		"confidence":  resolution.Confidence,
	})
	return nil
}

// Confirm applies the resolution (with any user overrides) to the inventory
// and finalizes the document. It is the only place the pipeline mutates
// items and events.
func (s *Service) Confirm(ctx context.Context, userID, propertyID, documentID string, in ConfirmInput) (Document, error) {
	doc, err := s.getOwned(ctx, userID, propertyID, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.Status != StatusReadyForReview {
		return Document{}, ErrStatusConflict
	}

	resolution := s.effectiveResolution(doc, in)
	if err := resolution.Validate(); err != nil {
		return Document{}, ErrInvalidInput
	}

	// Claim the transition up front so concurrent confirms cannot both
	// mutate the inventory; a failure below reverts the claim.
	now := time.Now().UTC()
	if err := s.Repo.UpdateStatusIf(ctx, documentID, StatusReadyForReview, StatusConfirmed, now); err != nil {
		return Document{}, err
	}

	itemID, eventID, err := s.applyResolution(ctx, userID, propertyID, doc, resolution, in)
	if err != nil {
		if revertErr := s.Repo.UpdateStatusIf(ctx, documentID, StatusConfirmed, StatusReadyForReview, time.Now().UTC()); revertErr != nil {
			telemetry.Error("failed to revert confirmation", map[string]any{
				"document_id": documentID,
				"error":       revertErr.Error(),
			})
		}
		return Document{}, err
	}

	if err := s.Repo.UpdateLinks(ctx, documentID, itemID, eventID); err != nil {
		return Document{}, err
	}

	metrics.IncDocumentsConfirmed()
	telemetry.Info("document confirmed", map[string]any{
		"document_id":       documentID,
		"action":            resolution.Action,
		"status_transition": StatusReadyForReview + "->" + StatusConfirmed,
	})

	return s.Repo.GetByID(ctx, documentID)
}

// effectiveResolution layers user overrides onto the stored resolution. A
// document whose resolution stage failed confirms as NEW_ITEM.
func (s *Service) effectiveResolution(doc Document, in ConfirmInput) ai.Resolution {
	resolution := ai.Resolution{Action: ai.ActionNewItem}
	if doc.ResolveData != nil {
		resolution = *doc.ResolveData
	}
	if in.Action != "" {
		resolution.Action = in.Action
	}
	if in.MatchedItemID != "" {
		resolution.MatchedItemID = in.MatchedItemID
	}
	if in.EventType != "" {
		resolution.SuggestedEventType = in.EventType
	}
	return resolution
}

func (s *Service) applyResolution(ctx context.Context, userID, propertyID string, doc Document, resolution ai.Resolution, in ConfirmInput) (itemID, eventID *string, err error) {
	var targetItem items.Item

	switch resolution.Action {
	case ai.ActionAttachToItem:
		targetItem, err = s.Items.Get(ctx, userID, propertyID, resolution.MatchedItemID)
		if err != nil {
			return nil, nil, mapItemErr(err)
		}
	case ai.ActionChildOfItem:
		if _, err := s.Items.Get(ctx, userID, propertyID, resolution.MatchedItemID); err != nil {
			return nil, nil, mapItemErr(err)
		}
		targetItem, err = s.createItemFromDocument(ctx, userID, propertyID, doc, in, &resolution.MatchedItemID)
		if err != nil {
			return nil, nil, err
		}
	default: // ai.ActionNewItem
		targetItem, err = s.createItemFromDocument(ctx, userID, propertyID, doc, in, nil)
		if err != nil {
			return nil, nil, err
		}
	}

	// An event is recorded only when the resolution (or the user's
	// override) named one; a bare attachment stays event-free.
	if resolution.SuggestedEventType == "" {
		return &targetItem.ID, nil, nil
	}

	ev, err := s.createEventFromDocument(ctx, userID, propertyID, targetItem.ID, doc, resolution)
	if err != nil {
		return nil, nil, err
	}

	return &targetItem.ID, &ev.ID, nil
}

func (s *Service) createItemFromDocument(ctx context.Context, userID, propertyID string, doc Document, in ConfirmInput, parentID *string) (items.Item, error) {
	name := strings.TrimSpace(in.ItemName)
	extracted := doc.ExtractedData
	if name == "" && extracted != nil {
		name = extracted.SuggestedItemName
	}
	if name == "" {
		name = "Item from " + doc.FileName
	}

	// Override > extracted > "other", same precedence as the name.
	category := strings.TrimSpace(in.Category)
	if category == "" && extracted != nil {
		category = extracted.SuggestedCategory
	}
	if category == "" {
		category = "other"
	}

	input := items.CreateInput{
		SpaceID:  in.SpaceID,
		ParentID: parentID,
		Name:     name,
		Category: category,
	}
	if extracted != nil {
		if extracted.Equipment != nil {
			input.Manufacturer = extracted.Equipment.Manufacturer
			input.ModelNumber = extracted.Equipment.ModelNumber
			input.SerialNumber = extracted.Equipment.SerialNumber
		}
		if extracted.Warranty != nil {
			input.WarrantyExpiresOn = ai.ParseDate(extracted.Warranty.ExpiresOn)
		}
		if extracted.Financial != nil && extracted.Financial.TotalCents > 0 {
			cents := extracted.Financial.TotalCents
			input.PurchasePriceCents = &cents
		}
		input.AcquiredOn = ai.ParseDate(extracted.DocumentDate)
	}

	it, err := s.Items.Create(ctx, userID, propertyID, input)
	if err != nil {
		return items.Item{}, mapItemErr(err)
	}
	return it, nil
}

func (s *Service) createEventFromDocument(ctx context.Context, userID, propertyID, itemID string, doc Document, resolution ai.Resolution) (events.Event, error) {
	eventType := resolution.SuggestedEventType

	occurredOn := time.Now().UTC()
	if doc.DocumentDate != nil {
		occurredOn = *doc.DocumentDate
	}

	input := events.CreateInput{
		Type:        eventType,
		OccurredOn:  occurredOn,
		Description: "Imported from " + doc.FileName,
	}
	if doc.ExtractedData != nil && doc.ExtractedData.Financial != nil {
		if doc.ExtractedData.Financial.TotalCents > 0 {
			cents := doc.ExtractedData.Financial.TotalCents
			input.CostCents = &cents
		}
		input.PerformedBy = doc.ExtractedData.Financial.Vendor
	}

	ev, err := s.Events.Create(ctx, userID, propertyID, itemID, input)
	if err != nil {
		return events.Event{}, err
	}
	return ev, nil
}

// Reprocess sends a document back through the pipeline. It covers both
// recovery cases: a failed extraction left the document pending, or a
// reviewed result was unsatisfactory.
func (s *Service) Reprocess(ctx context.Context, userID, propertyID, documentID string) (Document, error) {
	doc, err := s.getOwned(ctx, userID, propertyID, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.Status != StatusPending {
		if err := s.Repo.UpdateStatusIf(ctx, documentID, StatusReadyForReview, StatusPending, time.Now().UTC()); err != nil {
			return Document{}, err
		}
	}
	s.dispatch(ctx, documentID)
	return s.Repo.GetByID(ctx, documentID)
}

// Discard rejects a document without touching the inventory. The blob stays
// so the original file remains retrievable.
func (s *Service) Discard(ctx context.Context, userID, propertyID, documentID string) (Document, error) {
	doc, err := s.getOwned(ctx, userID, propertyID, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.Status != StatusPending && doc.Status != StatusReadyForReview {
		return Document{}, ErrStatusConflict
	}
	if err := s.Repo.UpdateStatusIf(ctx, documentID, doc.Status, StatusDiscarded, time.Now().UTC()); err != nil {
		return Document{}, err
	}
	return s.Repo.GetByID(ctx, documentID)
}

// Get returns a document in a property the user owns.
func (s *Service) Get(ctx context.Context, userID, propertyID, documentID string) (Document, error) {
	return s.getOwned(ctx, userID, propertyID, documentID)
}

// List returns documents in a property the user owns, optionally filtered by
// status.
func (s *Service) List(ctx context.Context, userID, propertyID, status string, limit, offset int) ([]Document, error) {
	if _, err := s.Properties.Get(ctx, userID, propertyID); err != nil {
		return nil, mapPropertyErr(err)
	}
	return s.Repo.ListByProperty(ctx, propertyID, status, limit, offset)
}

// SignedURL issues a time-limited download URL for a document's blob. The
// storage path is checked against the property namespace before signing.
func (s *Service) SignedURL(ctx context.Context, userID, propertyID, documentID string) (string, error) {
	doc, err := s.getOwned(ctx, userID, propertyID, documentID)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(doc.StoragePath, propertyID+"/") {
		return "", ErrNotFound
	}

	ttl := s.SignedURLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return s.Store.SignedURL(ctx, doc.StoragePath, ttl)
}

// Delete removes a document and its blob.
func (s *Service) Delete(ctx context.Context, userID, propertyID, documentID string) error {
	doc, err := s.getOwned(ctx, userID, propertyID, documentID)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.StoragePath); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, documentID)
}

func (s *Service) getOwned(ctx context.Context, userID, propertyID, documentID string) (Document, error) {
	if _, err := s.Properties.Get(ctx, userID, propertyID); err != nil {
		return Document{}, mapPropertyErr(err)
	}
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.PropertyID != propertyID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (s *Service) inventorySummaries(ctx context.Context, propertyID string) ([]ai.InventoryItem, error) {
	its, err := s.ItemsRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	out := make([]ai.InventoryItem, 0, len(its))
	for _, it := range its {
		summary := ai.InventoryItem{
			ID:           it.ID,
			Name:         it.Name,
			Category:     it.Category,
			Manufacturer: it.Manufacturer,
			ModelNumber:  it.ModelNumber,
		}
		if it.ParentID != nil {
			summary.ParentID = *it.ParentID
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *Service) readBlob(ctx context.Context, storagePath string) ([]byte, error) {
	rc, err := s.Store.Open(ctx, storagePath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, s.maxUploadBytes()+1))
}

func (s *Service) maxUploadBytes() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return defaultMaxUploadBytes
}

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/heic":      true,
	"application/pdf": true,
}

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".pdf":  "application/pdf",
}

// classifyContentType normalizes the declared content type. Generic
// octet-stream declarations are reclassified from the file extension before
// the allow-list applies.
func classifyContentType(contentType, fileName string) string {
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt, ok := extensionTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
			return byExt
		}
	}
	return contentType
}

func allowedContentType(contentType string) bool {
	return allowedTypes[contentType]
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

func mapItemErr(err error) error {
	if errors.Is(err, items.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, items.ErrInvalidInput) {
		return ErrInvalidInput
	}
	return err
}
