package maintenance

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

const taskColumns = `id, property_id, item_id, name, description, interval_months, next_due_at, last_completed_at, source, status, created_at`

// Create inserts a new task.
func (r *PGRepo) Create(ctx context.Context, task Task) error {
	const query = `
INSERT INTO maintenance_tasks (` + taskColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var itemID sql.NullString
	if task.ItemID != nil && *task.ItemID != "" {
		itemID = sql.NullString{String: *task.ItemID, Valid: true}
	}
	var lastCompletedAt sql.NullTime
	if task.LastCompletedAt != nil {
		lastCompletedAt = sql.NullTime{Time: *task.LastCompletedAt, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, query,
		task.ID,
		task.PropertyID,
		itemID,
		task.Name,
		task.Description,
		task.IntervalMonths,
		task.NextDueAt,
		lastCompletedAt,
		task.Source,
		task.Status,
		task.CreatedAt,
	)
	return err
}

// GetByID fetches a task by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Task, error) {
	const query = `
SELECT ` + taskColumns + `
FROM maintenance_tasks
WHERE id = $1`

	task, err := scanTask(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

// ListByProperty lists a property's tasks soonest-due first, optionally
// filtered by status.
func (r *PGRepo) ListByProperty(ctx context.Context, propertyID, status string) ([]Task, error) {
	query := `
SELECT ` + taskColumns + `
FROM maintenance_tasks
WHERE property_id = $1`
	args := []any{propertyID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += `
ORDER BY next_due_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListDueBefore returns active tasks due before the cutoff.
func (r *PGRepo) ListDueBefore(ctx context.Context, cutoff time.Time) ([]Task, error) {
	const query = `
SELECT ` + taskColumns + `
FROM maintenance_tasks
WHERE status = $1 AND next_due_at < $2
ORDER BY next_due_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, StatusActive, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// Update rewrites the mutable fields of a task.
func (r *PGRepo) Update(ctx context.Context, task Task) error {
	const query = `
UPDATE maintenance_tasks
SET name = $1,
    description = $2,
    interval_months = $3,
    next_due_at = $4,
    last_completed_at = $5,
    status = $6
WHERE id = $7`

	var lastCompletedAt sql.NullTime
	if task.LastCompletedAt != nil {
		lastCompletedAt = sql.NullTime{Time: *task.LastCompletedAt, Valid: true}
	}

	res, err := r.DB.ExecContext(ctx, query,
		task.Name,
		task.Description,
		task.IntervalMonths,
		task.NextDueAt,
		lastCompletedAt,
		task.Status,
		task.ID,
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

// Delete removes a task.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM maintenance_tasks WHERE id = $1`
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

func scanTask(row rowScanner) (Task, error) {
	var task Task
	var itemID sql.NullString
	var lastCompletedAt sql.NullTime
	err := row.Scan(
		&task.ID,
		&task.PropertyID,
		&itemID,
		&task.Name,
		&task.Description,
		&task.IntervalMonths,
		&task.NextDueAt,
		&lastCompletedAt,
		&task.Source,
		&task.Status,
		&task.CreatedAt,
	)
	if err != nil {
		return Task{}, err
	}
	if itemID.Valid {
		task.ItemID = &itemID.String
	}
	if lastCompletedAt.Valid {
		task.LastCompletedAt = &lastCompletedAt.Time
	}
	return task, nil
}

func collectTasks(rows *sql.Rows) ([]Task, error) {
	var out []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
