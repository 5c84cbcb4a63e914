package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"homefax-backend/internal/ai"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, property_id, item_id, event_id, doc_type, file_name, storage_path, content_type, size_bytes, status, extracted_text, extracted_data, resolve_data, document_date, source, source_email, status_changed_at, created_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (` + documentColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	extractedData, err := marshalJSONB(doc.ExtractedData)
	if err != nil {
		return err
	}
	resolveData, err := marshalJSONB(doc.ResolveData)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.PropertyID,
		nullString(doc.ItemID),
		nullString(doc.EventID),
		doc.DocType,
		doc.FileName,
		doc.StoragePath,
		doc.ContentType,
		doc.SizeBytes,
		doc.Status,
		doc.ExtractedText,
		extractedData,
		resolveData,
		nullTime(doc.DocumentDate),
		doc.Source,
		doc.SourceEmail,
		doc.StatusChangedAt,
		doc.CreatedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE id = $1`

	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByProperty lists documents newest-first, optionally filtered by status.
func (r *PGRepo) ListByProperty(ctx context.Context, propertyID, status string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE property_id = $1`
	args := []any{propertyID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(`
ORDER BY created_at DESC
LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateStatusIf transitions a document between statuses with a conditional
// update, so only one caller wins a contested transition.
func (r *PGRepo) UpdateStatusIf(ctx context.Context, id, from, to string, at time.Time) error {
	const query = `
UPDATE documents
SET status = $1, status_changed_at = $2
WHERE id = $3 AND status = $4`

	res, err := r.DB.ExecContext(ctx, query, to, at, id, from)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// SetStatus transitions a document unconditionally.
func (r *PGRepo) SetStatus(ctx context.Context, id, to string, at time.Time) error {
	const query = `
UPDATE documents
SET status = $1, status_changed_at = $2
WHERE id = $3`

	res, err := r.DB.ExecContext(ctx, query, to, at, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateExtraction stores the vision model's output on a document.
func (r *PGRepo) UpdateExtraction(ctx context.Context, id string, extracted ai.ExtractedData, docType string, documentDate *time.Time) error {
	const query = `
UPDATE documents
SET extracted_data = $1, extracted_text = $2, doc_type = $3, document_date = $4
WHERE id = $5`

	payload, err := marshalJSONB(&extracted)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query, payload, extracted.RawText, docType, nullTime(documentDate), id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateResolution stores the resolver's decision on a document.
func (r *PGRepo) UpdateResolution(ctx context.Context, id string, resolution ai.Resolution) error {
	const query = `
UPDATE documents
SET resolve_data = $1
WHERE id = $2`

	payload, err := marshalJSONB(&resolution)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query, payload, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLinks points a document at the inventory rows it produced.
func (r *PGRepo) UpdateLinks(ctx context.Context, id string, itemID, eventID *string) error {
	const query = `
UPDATE documents
SET item_id = $1, event_id = $2
WHERE id = $3`

	res, err := r.DB.ExecContext(ctx, query, nullString(itemID), nullString(eventID), id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetStuckProcessing returns documents stuck in processing to pending.
func (r *PGRepo) ResetStuckProcessing(ctx context.Context, cutoff time.Time) (int, error) {
	const query = `
UPDATE documents
SET status = $1, status_changed_at = now()
WHERE status = $2 AND status_changed_at < $3`

	res, err := r.DB.ExecContext(ctx, query, StatusPending, StatusProcessing, cutoff)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// Delete removes a document row.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var itemID, eventID sql.NullString
	var extractedData, resolveData []byte
	var documentDate sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.PropertyID,
		&itemID,
		&eventID,
		&doc.DocType,
		&doc.FileName,
		&doc.StoragePath,
		&doc.ContentType,
		&doc.SizeBytes,
		&doc.Status,
		&doc.ExtractedText,
		&extractedData,
		&resolveData,
		&documentDate,
		&doc.Source,
		&doc.SourceEmail,
		&doc.StatusChangedAt,
		&doc.CreatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if itemID.Valid {
		doc.ItemID = &itemID.String
	}
	if eventID.Valid {
		doc.EventID = &eventID.String
	}
	if documentDate.Valid {
		doc.DocumentDate = &documentDate.Time
	}
	if len(extractedData) > 0 {
		var extracted ai.ExtractedData
		if err := json.Unmarshal(extractedData, &extracted); err != nil {
			return Document{}, fmt.Errorf("unmarshal extracted_data: %w", err)
		}
		doc.ExtractedData = &extracted
	}
	if len(resolveData) > 0 {
		var resolution ai.Resolution
		if err := json.Unmarshal(resolveData, &resolution); err != nil {
			return Document{}, fmt.Errorf("unmarshal resolve_data: %w", err)
		}
		doc.ResolveData = &resolution
	}
	return doc, nil
}

func marshalJSONB[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	return payload, nil
}

func nullString(v *string) sql.NullString {
	if v == nil || *v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
