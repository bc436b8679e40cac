package storage

import (
	"context"
	"io"
)

// FileStorage keeps generated report files.
type FileStorage interface {
	// Upload stores a file under key and returns the stored key
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	// Download opens a stored file
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks if a file is stored under key
	Exists(ctx context.Context, key string) (bool, error)
}
