package properties

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new property.
func (r *PGRepo) Create(ctx context.Context, p Property) error {
	const query = `
INSERT INTO properties (id, user_id, name, address, year_built, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var yearBuilt sql.NullInt32
	if p.YearBuilt != nil {
		yearBuilt = sql.NullInt32{Int32: int32(*p.YearBuilt), Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, query,
		p.ID, p.UserID, p.Name, p.Address, yearBuilt, p.Notes, p.CreatedAt, p.UpdatedAt)
	return err
}

// GetByID fetches a property by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Property, error) {
	const query = `
SELECT id, user_id, name, address, year_built, notes, created_at, updated_at
FROM properties
WHERE id = $1`

	var p Property
	var address sql.NullString
	var yearBuilt sql.NullInt32
	var notes sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Name, &address, &yearBuilt, &notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Property{}, ErrNotFound
		}
		return Property{}, err
	}
	if address.Valid {
		p.Address = address.String
	}
	if yearBuilt.Valid {
		yb := int(yearBuilt.Int32)
		p.YearBuilt = &yb
	}
	if notes.Valid {
		p.Notes = notes.String
	}
	return p, nil
}

// ListByUser lists properties for a user ordered by creation time.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Property, error) {
	const query = `
SELECT id, user_id, name, address, year_built, notes, created_at, updated_at
FROM properties
WHERE user_id = $1
ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Property
	for rows.Next() {
		var p Property
		var address sql.NullString
		var yearBuilt sql.NullInt32
		var notes sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &address, &yearBuilt, &notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if address.Valid {
			p.Address = address.String
		}
		if yearBuilt.Valid {
			yb := int(yearBuilt.Int32)
			p.YearBuilt = &yb
		}
		if notes.Valid {
			p.Notes = notes.String
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a property.
func (r *PGRepo) Update(ctx context.Context, p Property) error {
	const query = `
UPDATE properties
SET name = $1, address = $2, year_built = $3, notes = $4, updated_at = $5
WHERE id = $6`

	var yearBuilt sql.NullInt32
	if p.YearBuilt != nil {
		yearBuilt = sql.NullInt32{Int32: int32(*p.YearBuilt), Valid: true}
	}

	res, err := r.DB.ExecContext(ctx, query, p.Name, p.Address, yearBuilt, p.Notes, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a property. Dependent rows cascade in the schema.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM properties WHERE id = $1`
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

var _ Repo = (*PGRepo)(nil)
