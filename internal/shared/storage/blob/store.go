package blob

import (
	"context"
	"io"
	"time"
)

// Store defines the contract for saving and retrieving binary document blobs.
// Paths are opaque to the store; callers impose their own namespacing.
type Store interface {
	Save(ctx context.Context, path string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
