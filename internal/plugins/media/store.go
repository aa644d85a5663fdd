package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/keyxmakerx/stockroom/internal/config"
)

// BlobStore persists uploaded bytes under a key and reports where they went.
type BlobStore interface {
	// Put writes data under key and returns the stored object's location.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Destination describes where objects land (a directory or bucket URL).
	Destination() string
}

// NewBlobStore builds the store selected by cfg.Backend.
func NewBlobStore(ctx context.Context, cfg config.UploadConfig) (BlobStore, error) {
	switch cfg.Backend {
	case config.UploadBackendS3:
		return NewS3Store(ctx, cfg.S3)
	case config.UploadBackendLocal, "":
		return NewLocalStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Backend)
	}
}

// localStore writes files into a directory on the local filesystem.
type localStore struct {
	dir string
}

// NewLocalStore creates a store rooted at dir, creating it if needed.
func NewLocalStore(dir string) (BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(key))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	return path, nil
}

func (s *localStore) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing upload file: %w", err)
	}
	return nil
}

func (s *localStore) Destination() string {
	return s.dir
}
