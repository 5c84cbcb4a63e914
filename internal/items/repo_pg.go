package items

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const itemColumns = `id, property_id, space_id, parent_id, name, category, manufacturer, model_number, serial_number, acquired_on, warranty_expires_on, purchase_price_cents, notes, created_at`

// Create inserts a new item.
func (r *PGRepo) Create(ctx context.Context, it Item) error {
	const query = `
INSERT INTO items (` + itemColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.DB.ExecContext(ctx, query,
		it.ID,
		it.PropertyID,
		nullString(it.SpaceID),
		nullString(it.ParentID),
		it.Name,
		it.Category,
		it.Manufacturer,
		it.ModelNumber,
		it.SerialNumber,
		nullTime(it.AcquiredOn),
		nullTime(it.WarrantyExpiresOn),
		nullInt64(it.PurchasePriceCents),
		it.Notes,
		it.CreatedAt,
	)
	return err
}

// GetByID fetches an item by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Item, error) {
	const query = `
SELECT ` + itemColumns + `
FROM items
WHERE id = $1`

	it, err := scanItem(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return it, nil
}

// ListByProperty lists a property's items ordered by creation time.
func (r *PGRepo) ListByProperty(ctx context.Context, propertyID string) ([]Item, error) {
	const query = `
SELECT ` + itemColumns + `
FROM items
WHERE property_id = $1
ORDER BY created_at ASC`
	return r.list(ctx, query, propertyID)
}

// ListChildren lists the direct children of an item.
func (r *PGRepo) ListChildren(ctx context.Context, parentID string) ([]Item, error) {
	const query = `
SELECT ` + itemColumns + `
FROM items
WHERE parent_id = $1
ORDER BY created_at ASC`
	return r.list(ctx, query, parentID)
}

// Update rewrites the mutable fields of an item.
func (r *PGRepo) Update(ctx context.Context, it Item) error {
	const query = `
UPDATE items
SET space_id = $1,
    parent_id = $2,
    name = $3,
    category = $4,
    manufacturer = $5,
    model_number = $6,
    serial_number = $7,
    acquired_on = $8,
    warranty_expires_on = $9,
    purchase_price_cents = $10,
    notes = $11
WHERE id = $12`

	res, err := r.DB.ExecContext(ctx, query,
		nullString(it.SpaceID),
		nullString(it.ParentID),
		it.Name,
		it.Category,
		it.Manufacturer,
		it.ModelNumber,
		it.SerialNumber,
		nullTime(it.AcquiredOn),
		nullTime(it.WarrantyExpiresOn),
		nullInt64(it.PurchasePriceCents),
		it.Notes,
		it.ID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an item. Children cascade in the schema.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM items WHERE id = $1`
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

func (r *PGRepo) list(ctx context.Context, query string, arg any) ([]Item, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var it Item
	var spaceID, parentID sql.NullString
	var acquiredOn, warrantyExpiresOn sql.NullTime
	var priceCents sql.NullInt64
	err := row.Scan(
		&it.ID,
		&it.PropertyID,
		&spaceID,
		&parentID,
		&it.Name,
		&it.Category,
		&it.Manufacturer,
		&it.ModelNumber,
		&it.SerialNumber,
		&acquiredOn,
		&warrantyExpiresOn,
		&priceCents,
		&it.Notes,
		&it.CreatedAt,
	)
	if err != nil {
		return Item{}, err
	}
	if spaceID.Valid {
		it.SpaceID = &spaceID.String
	}
	if parentID.Valid {
		it.ParentID = &parentID.String
	}
	if acquiredOn.Valid {
		it.AcquiredOn = &acquiredOn.Time
	}
	if warrantyExpiresOn.Valid {
		it.WarrantyExpiresOn = &warrantyExpiresOn.Time
	}
	if priceCents.Valid {
		it.PurchasePriceCents = &priceCents.Int64
	}
	return it, nil
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

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
