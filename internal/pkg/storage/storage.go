package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("path escapes storage root")

// FileStorage keeps opaque files under slash-separated keys
type FileStorage interface {
	// Upload writes file under path, replacing any previous content
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file; deleting a missing file is not an error
	Delete(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)

	// List returns the keys of the files directly inside dir, sorted
	List(ctx context.Context, dir string) ([]string, error)
}
