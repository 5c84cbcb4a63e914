package workerproc

import (
	"context"
	"errors"
	"testing"
	"time"

	"homefax-backend/internal/bootstrap"
	"homefax-backend/internal/documents"
	"homefax-backend/internal/queue"
	"homefax-backend/internal/shared/config"
)

func TestParseMessageEmptyBody(t *testing.T) {
	_, meta, err := ParseMessage("   ")
	var emptyErr ErrEmptyBody
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
	if meta.BodyLen != 3 {
		t.Fatalf("expected body length 3, got %d", meta.BodyLen)
	}
}

func TestParseMessageDecodeFailure(t *testing.T) {
	_, meta, err := ParseMessage("{not-json")
	var decodeErr ErrDecode
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if meta.BodySHA == "" {
		t.Fatalf("expected a body hash for diagnostics")
	}
}

func TestParseMessageMissingDocumentID(t *testing.T) {
	body := `{"stage":"full","requestId":"req-1"}`
	msg, _, err := ParseMessage(body)
	var missingErr ErrMissingDocumentID
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected ErrMissingDocumentID, got %v", err)
	}
	if missingErr.RequestID != "req-1" {
		t.Fatalf("expected request id carried through, got %q", missingErr.RequestID)
	}
	if msg.Stage != queue.StageFull {
		t.Fatalf("expected decoded stage preserved, got %q", msg.Stage)
	}
}

func TestParseMessageValid(t *testing.T) {
	body := `{"documentId":"doc-1","stage":"extract","requestId":"req-9","version":1}`
	msg, meta, err := ParseMessage(body)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.DocumentID != "doc-1" || msg.Stage != queue.StageExtract {
		t.Fatalf("decoded message mismatch: %+v", msg)
	}
	if meta.BodyLen != len(body) {
		t.Fatalf("expected body length %d, got %d", len(body), meta.BodyLen)
	}
}

func TestHandleMessageWrapsProcessingFailure(t *testing.T) {
	cfg := config.Config{
		Env:           "dev",
		BlobStoreType: "local",
		LocalStoreDir: t.TempDir(),
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	doc := documents.Document{
		ID:              "doc-1",
		PropertyID:      "prop-1",
		DocType:         "other",
		FileName:        "receipt.jpg",
		StoragePath:     "prop-1/user-1/x/receipt.jpg",
		ContentType:     "image/jpeg",
		Status:          documents.StatusPending,
		Source:          documents.SourceUpload,
		StatusChangedAt: time.Now().UTC(),
		CreatedAt:       time.Now().UTC(),
	}
	if err := app.DocumentsRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}

	// The blob is missing, so extraction fails and the document returns to
	// pending.
	body := `{"documentId":"doc-1","stage":"extract","requestId":"req-1","version":1}`
	err = HandleMessage(context.Background(), app, body)

	var procErr ErrProcess
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ErrProcess, got %v", err)
	}
	if procErr.DocumentID != "doc-1" || procErr.Stage != queue.StageExtract {
		t.Fatalf("process error fields mismatch: %+v", procErr)
	}
	if procErr.RequestID != "req-1" {
		t.Fatalf("expected request id carried through, got %q", procErr.RequestID)
	}

	got, err := app.DocumentsRepo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if got.Status != documents.StatusPending {
		t.Fatalf("expected document back in pending, got %s", got.Status)
	}
}

func TestHandleMessageRejectsMissingDocumentID(t *testing.T) {
	cfg := config.Config{
		Env:           "dev",
		BlobStoreType: "local",
		LocalStoreDir: t.TempDir(),
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	err = HandleMessage(context.Background(), app, `{"stage":"full"}`)
	var missingErr ErrMissingDocumentID
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected ErrMissingDocumentID, got %v", err)
	}
}

func TestComputeMeta(t *testing.T) {
	meta := ComputeMeta("")
	if meta.BodyLen != 0 || meta.BodySHA != "" {
		t.Fatalf("expected zero meta for empty body, got %+v", meta)
	}

	meta = ComputeMeta("abc")
	if meta.BodyLen != 3 || len(meta.BodySHA) != 64 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}
