package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpdateStatusIfConflictsOnZeroRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE documents").
		WithArgs(StatusProcessing, at, "doc-1", StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatusIf(context.Background(), "doc-1", StatusPending, StatusProcessing, at)
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusIfWinsContestedTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE documents").
		WithArgs(StatusConfirmed, at, "doc-1", StatusReadyForReview).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatusIf(context.Background(), "doc-1", StatusReadyForReview, StatusConfirmed, at); err != nil {
		t.Fatalf("UpdateStatusIf: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoResetStuckProcessingCountsRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	cutoff := time.Now().UTC().Add(-30 * time.Minute)

	mock.ExpectExec("UPDATE documents").
		WithArgs(StatusPending, StatusProcessing, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	reset, err := repo.ResetStuckProcessing(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("ResetStuckProcessing: %v", err)
	}
	if reset != 3 {
		t.Fatalf("expected 3 reset documents, got %d", reset)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
