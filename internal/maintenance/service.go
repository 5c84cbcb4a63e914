package maintenance

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"homefax-backend/internal/ai"
	"homefax-backend/internal/documents"
	"homefax-backend/internal/events"
	"homefax-backend/internal/properties"
	"homefax-backend/internal/shared/telemetry"
)

// Service contains business logic for maintenance tasks.
type Service struct {
	Repo       Repo
	Properties *properties.Service
	Events     *events.Service
	Documents  *documents.Service
	Planner    ai.Planner
}

// CreateInput carries the caller-supplied fields for a new manual task.
type CreateInput struct {
	ItemID         *string
	Name           string
	Description    string
	IntervalMonths int
	NextDueAt      time.Time
}

// Create records a new manual task under a property the user owns.
func (s *Service) Create(ctx context.Context, userID, propertyID string, in CreateInput) (Task, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.IntervalMonths <= 0 || in.NextDueAt.IsZero() {
		return Task{}, ErrInvalidInput
	}

	if _, err := s.Properties.Get(ctx, userID, propertyID); err != nil {
		return Task{}, mapPropertyErr(err)
	}

	task := Task{
		ID:             uuid.NewString(),
		PropertyID:     propertyID,
		ItemID:         in.ItemID,
		Name:           in.Name,
		Description:    strings.TrimSpace(in.Description),
		IntervalMonths: in.IntervalMonths,
		NextDueAt:      in.NextDueAt,
		Source:         SourceManual,
		Status:         StatusActive,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// List returns a property's tasks, optionally filtered by status.
func (s *Service) List(ctx context.Context, userID, propertyID, status string) ([]Task, error) {
	if _, err := s.Properties.Get(ctx, userID, propertyID); err != nil {
		return nil, mapPropertyErr(err)
	}
	return s.Repo.ListByProperty(ctx, propertyID, status)
}

// Upcoming returns a property's active tasks due within the window.
func (s *Service) Upcoming(ctx context.Context, userID, propertyID string, withinDays int) ([]Task, error) {
	if withinDays <= 0 {
		withinDays = 30
	}
	tasks, err := s.List(ctx, userID, propertyID, StatusActive)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, withinDays)
	out := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if task.NextDueAt.Before(cutoff) {
			out = append(out, task)
		}
	}
	return out, nil
}

// UpcomingAcross returns active tasks across the user's properties, soonest
// due first, bounded by limit. With no explicit property ids it covers every
// property the user owns.
func (s *Service) UpcomingAcross(ctx context.Context, userID string, propertyIDs []string, limit int) ([]Task, error) {
	if limit <= 0 {
		limit = 20
	}

	if len(propertyIDs) == 0 {
		props, err := s.Properties.List(ctx, userID)
		if err != nil {
			return nil, mapPropertyErr(err)
		}
		for _, p := range props {
			propertyIDs = append(propertyIDs, p.ID)
		}
	}

	var out []Task
	for _, propertyID := range propertyIDs {
		tasks, err := s.List(ctx, userID, propertyID, StatusActive)
		if err != nil {
			return nil, err
		}
		out = append(out, tasks...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].NextDueAt.Before(out[j].NextDueAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpdateInput carries optional field changes. Nil pointers leave the stored
// value alone; ClearItem detaches the task from its item.
type UpdateInput struct {
	Name           *string
	Description    *string
	IntervalMonths *int
	NextDueAt      *time.Time
	ItemID         *string
	ClearItem      bool
}

// Update applies partial changes to a task the user owns.
func (s *Service) Update(ctx context.Context, userID, propertyID, taskID string, in UpdateInput) (Task, error) {
	task, err := s.getOwned(ctx, userID, propertyID, taskID)
	if err != nil {
		return Task{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Task{}, ErrInvalidInput
		}
		task.Name = name
	}
	if in.Description != nil {
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.IntervalMonths != nil {
		if *in.IntervalMonths <= 0 {
			return Task{}, ErrInvalidInput
		}
		task.IntervalMonths = *in.IntervalMonths
	}
	if in.NextDueAt != nil {
		if in.NextDueAt.IsZero() {
			return Task{}, ErrInvalidInput
		}
		task.NextDueAt = *in.NextDueAt
	}
	if in.ClearItem {
		task.ItemID = nil
	} else if in.ItemID != nil {
		task.ItemID = in.ItemID
	}

	if err := s.Repo.Update(ctx, task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// CompleteInput carries the completion date plus optional details recorded
// on the event created for the linked item.
type CompleteInput struct {
	CompletionDate time.Time
	CostCents      *int64
	PerformedBy    string
	Description    string
}

// Complete marks a task done, rolls the next due date forward by the
// interval, and records a maintenance event on the linked item.
func (s *Service) Complete(ctx context.Context, userID, propertyID, taskID string, in CompleteInput) (Task, error) {
	task, err := s.getOwned(ctx, userID, propertyID, taskID)
	if err != nil {
		return Task{}, err
	}
	if task.Status == StatusDismissed {
		return Task{}, ErrDismissed
	}
	completionDate := in.CompletionDate
	if completionDate.IsZero() {
		completionDate = time.Now().UTC()
	}

	completed := completionDate
	task.LastCompletedAt = &completed
	task.NextDueAt = completionDate.AddDate(0, task.IntervalMonths, 0)
	task.Status = StatusActive

	if err := s.Repo.Update(ctx, task); err != nil {
		return Task{}, err
	}

	if task.ItemID != nil {
		description := strings.TrimSpace(in.Description)
		if description == "" {
			description = task.Name
		}
		_, err := s.Events.Create(ctx, userID, propertyID, *task.ItemID, events.CreateInput{
			Type:        events.TypeMaintenance,
			OccurredOn:  completionDate,
			Description: description,
			CostCents:   in.CostCents,
			PerformedBy: strings.TrimSpace(in.PerformedBy),
		})
		if err != nil {
			telemetry.Warn("completion event not recorded", map[string]any{
				"task_id": task.ID,
				"item_id": *task.ItemID,
				"error":   err.Error(),
			})
		}
	}

	return task, nil
}

// Snooze pushes the next due date forward by one interval without marking
// the task complete.
func (s *Service) Snooze(ctx context.Context, userID, propertyID, taskID string) (Task, error) {
	task, err := s.getOwned(ctx, userID, propertyID, taskID)
	if err != nil {
		return Task{}, err
	}
	if task.Status == StatusDismissed {
		return Task{}, ErrDismissed
	}

	task.NextDueAt = task.NextDueAt.AddDate(0, task.IntervalMonths, 0)
	if err := s.Repo.Update(ctx, task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// Pause stops a task from coming due until it is resumed.
func (s *Service) Pause(ctx context.Context, userID, propertyID, taskID string) (Task, error) {
	return s.setStatus(ctx, userID, propertyID, taskID, StatusPaused)
}

// Resume reactivates a paused task.
func (s *Service) Resume(ctx context.Context, userID, propertyID, taskID string) (Task, error) {
	return s.setStatus(ctx, userID, propertyID, taskID, StatusActive)
}

// Dismiss permanently retires a task.
func (s *Service) Dismiss(ctx context.Context, userID, propertyID, taskID string) (Task, error) {
	return s.setStatus(ctx, userID, propertyID, taskID, StatusDismissed)
}

// Delete removes a task the user owns.
func (s *Service) Delete(ctx context.Context, userID, propertyID, taskID string) error {
	if _, err := s.getOwned(ctx, userID, propertyID, taskID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, taskID)
}

// SuggestFromDocument asks the planner for a recurring plan based on a
// document's extraction and records the suggestions as ai_suggested tasks.
func (s *Service) SuggestFromDocument(ctx context.Context, userID, propertyID, documentID string) ([]Task, error) {
	doc, err := s.Documents.Get(ctx, userID, propertyID, documentID)
	if err != nil {
		return nil, mapDocumentErr(err)
	}
	if doc.ExtractedData == nil {
		return nil, ErrInvalidInput
	}

	suggestions, err := s.Planner.SuggestMaintenance(ctx, *doc.ExtractedData)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tasks := make([]Task, 0, len(suggestions))
	for _, suggestion := range suggestions {
		task := Task{
			ID:             uuid.NewString(),
			PropertyID:     propertyID,
			ItemID:         doc.ItemID,
			Name:           suggestion.Name,
			Description:    suggestion.Description,
			IntervalMonths: suggestion.IntervalMonths,
			NextDueAt:      now.AddDate(0, suggestion.IntervalMonths, 0),
			Source:         SourceAISuggested,
			Status:         StatusActive,
			CreatedAt:      now,
		}
		if err := s.Repo.Create(ctx, task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// ScanOverdue logs active tasks past due. Called from the worker's cron
// sweep.
func (s *Service) ScanOverdue(ctx context.Context) (int, error) {
	tasks, err := s.Repo.ListDueBefore(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	for _, task := range tasks {
		telemetry.Info("maintenance task overdue", map[string]any{
			"task_id":     task.ID,
			"property_id": task.PropertyID,
			"name":        task.Name,
			"next_due_at": task.NextDueAt.Format("2006-01-02"),
		})
	}
	return len(tasks), nil
}

func (s *Service) setStatus(ctx context.Context, userID, propertyID, taskID, status string) (Task, error) {
	task, err := s.getOwned(ctx, userID, propertyID, taskID)
	if err != nil {
		return Task{}, err
	}
	task.Status = status
	if err := s.Repo.Update(ctx, task); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (s *Service) getOwned(ctx context.Context, userID, propertyID, taskID string) (Task, error) {
	if _, err := s.Properties.Get(ctx, userID, propertyID); err != nil {
		return Task{}, mapPropertyErr(err)
	}
	task, err := s.Repo.GetByID(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if task.PropertyID != propertyID {
		return Task{}, ErrNotFound
	}
	return task, nil
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

func mapDocumentErr(err error) error {
	if errors.Is(err, documents.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, documents.ErrInvalidInput) {
		return ErrInvalidInput
	}
	return err
}
