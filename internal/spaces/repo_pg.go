package spaces

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new space.
func (r *PGRepo) Create(ctx context.Context, sp Space) error {
	const query = `
INSERT INTO spaces (id, property_id, name, kind, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, sp.ID, sp.PropertyID, sp.Name, sp.Kind, sp.CreatedAt)
	return err
}

// GetByID fetches a space by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Space, error) {
	const query = `
SELECT id, property_id, name, kind, created_at
FROM spaces
WHERE id = $1`
	var sp Space
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&sp.ID, &sp.PropertyID, &sp.Name, &sp.Kind, &sp.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Space{}, ErrNotFound
		}
		return Space{}, err
	}
	return sp, nil
}

// ListByProperty lists a property's spaces ordered by name.
func (r *PGRepo) ListByProperty(ctx context.Context, propertyID string) ([]Space, error) {
	const query = `
SELECT id, property_id, name, kind, created_at
FROM spaces
WHERE property_id = $1
ORDER BY name ASC`

	rows, err := r.DB.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Space
	for rows.Next() {
		var sp Space
		if err := rows.Scan(&sp.ID, &sp.PropertyID, &sp.Name, &sp.Kind, &sp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a space.
func (r *PGRepo) Update(ctx context.Context, sp Space) error {
	const query = `
UPDATE spaces
SET name = $1, kind = $2
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, sp.Name, sp.Kind, sp.ID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a space. Items in it fall back to no space in the schema.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM spaces WHERE id = $1`
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
