package events

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const eventColumns = `id, item_id, type, occurred_on, description, cost_cents, performed_by, created_at`

// Create inserts a new event.
func (r *PGRepo) Create(ctx context.Context, ev Event) error {
	const query = `
INSERT INTO events (` + eventColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var costCents sql.NullInt64
	if ev.CostCents != nil {
		costCents = sql.NullInt64{Int64: *ev.CostCents, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, query,
		ev.ID, ev.ItemID, ev.Type, ev.OccurredOn, ev.Description, costCents, ev.PerformedBy, ev.CreatedAt)
	return err
}

// GetByID fetches an event by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Event, error) {
	const query = `
SELECT ` + eventColumns + `
FROM events
WHERE id = $1`

	ev, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, ErrNotFound
		}
		return Event{}, err
	}
	return ev, nil
}

// ListByItem lists an item's events newest-first.
func (r *PGRepo) ListByItem(ctx context.Context, itemID string) ([]Event, error) {
	const query = `
SELECT ` + eventColumns + `
FROM events
WHERE item_id = $1
ORDER BY occurred_on DESC, created_at DESC`
	return r.list(ctx, query, itemID)
}

// ListByProperty lists every event in a property newest-first. Used for the
// property timeline.
func (r *PGRepo) ListByProperty(ctx context.Context, propertyID string) ([]Event, error) {
	const query = `
SELECT e.id, e.item_id, e.type, e.occurred_on, e.description, e.cost_cents, e.performed_by, e.created_at
FROM events e
JOIN items i ON i.id = e.item_id
WHERE i.property_id = $1
ORDER BY e.occurred_on DESC, e.created_at DESC`
	return r.list(ctx, query, propertyID)
}

// Delete removes an event.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM events WHERE id = $1`
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

func (r *PGRepo) list(ctx context.Context, query string, arg any) ([]Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var ev Event
	var costCents sql.NullInt64
	err := row.Scan(
		&ev.ID, &ev.ItemID, &ev.Type, &ev.OccurredOn, &ev.Description, &costCents, &ev.PerformedBy, &ev.CreatedAt)
	if err != nil {
		return Event{}, err
	}
	if costCents.Valid {
		ev.CostCents = &costCents.Int64
	}
	return ev, nil
}

var _ Repo = (*PGRepo)(nil)
