package local

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"homefax-backend/internal/shared/storage/blob"
)

// Store implements blob.Store using the local filesystem. It is the dev
// backend; SignedURL returns a file URL with an advisory expiry.
type Store struct {
	baseDir string
}

// New creates a new local blob store rooted at baseDir.
func New(baseDir string) blob.Store {
	return &Store{baseDir: baseDir}
}

// Save writes the reader to disk at the given path.
func (s *Store) Save(ctx context.Context, path string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	clean, err := s.cleanPath(path)
	if err != nil {
		return 0, err
	}

	fullPath := filepath.Join(s.baseDir, clean)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("write body: %w", err)
	}
	_ = contentType
	return written, nil
}

// Open opens a stored blob for reading.
func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := s.cleanPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, clean))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a stored blob. Missing files are not an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clean, err := s.cleanPath(path)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.baseDir, clean)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// SignedURL returns a file URL with an expiry query. There is no enforcement
// on the local backend; real signing is the S3 store's job.
func (s *Store) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean, err := s.cleanPath(path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(filepath.Join(s.baseDir, clean))
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	expires := time.Now().UTC().Add(ttl).Unix()
	return fmt.Sprintf("file://%s?expires=%d", url.PathEscape(abs), expires), nil
}

func (s *Store) cleanPath(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage path")
	}
	return clean, nil
}

var _ blob.Store = (*Store)(nil)
