package storage

import (
	"context"
	"io"
)

// Storage holds the original and rendered PDF blobs. The database keeps only
// object keys; the bytes live here.
type Storage interface {
	Upload(ctx context.Context, path string, data io.Reader, size int64, contentType string) error
	Download(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}
