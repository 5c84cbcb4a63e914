package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"homefax-backend/internal/ai"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document // id -> document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Document)}
}

// Create stores a new document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc
	return nil
}

// GetByID returns a document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListByProperty returns documents newest-first, optionally filtered by status.
func (r *MemoryRepo) ListByProperty(ctx context.Context, propertyID, status string, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	var docs []Document
	for _, doc := range r.data {
		if doc.PropertyID != propertyID {
			continue
		}
		if status != "" && doc.Status != status {
			continue
		}
		docs = append(docs, doc)
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	if offset >= len(docs) {
		return []Document{}, nil
	}
	end := offset + limit
	if end > len(docs) {
		end = len(docs)
	}
	return docs[offset:end], nil
}

// UpdateStatusIf transitions a document only when it currently sits in from.
func (r *MemoryRepo) UpdateStatusIf(ctx context.Context, id, from, to string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok || doc.Status != from {
		return ErrStatusConflict
	}
	doc.Status = to
	doc.StatusChangedAt = at
	r.data[id] = doc
	return nil
}

// SetStatus transitions a document unconditionally.
func (r *MemoryRepo) SetStatus(ctx context.Context, id, to string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	doc.Status = to
	doc.StatusChangedAt = at
	r.data[id] = doc
	return nil
}

// UpdateExtraction stores the vision model's output on a document.
func (r *MemoryRepo) UpdateExtraction(ctx context.Context, id string, extracted ai.ExtractedData, docType string, documentDate *time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	copied := extracted
	doc.ExtractedData = &copied
	doc.ExtractedText = extracted.RawText
	doc.DocType = docType
	doc.DocumentDate = documentDate
	r.data[id] = doc
	return nil
}

// UpdateResolution stores the resolver's decision on a document.
func (r *MemoryRepo) UpdateResolution(ctx context.Context, id string, resolution ai.Resolution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	copied := resolution
	doc.ResolveData = &copied
	r.data[id] = doc
	return nil
}

// UpdateLinks points a document at the inventory rows it produced.
func (r *MemoryRepo) UpdateLinks(ctx context.Context, id string, itemID, eventID *string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	doc.ItemID = itemID
	doc.EventID = eventID
	r.data[id] = doc
	return nil
}

// ResetStuckProcessing returns documents stuck in processing to pending.
func (r *MemoryRepo) ResetStuckProcessing(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	reset := 0
	for id, doc := range r.data {
		if doc.Status == StatusProcessing && doc.StatusChangedAt.Before(cutoff) {
			doc.Status = StatusPending
			doc.StatusChangedAt = time.Now().UTC()
			r.data[id] = doc
			reset++
		}
	}
	return reset, nil
}

// Delete removes a document.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
