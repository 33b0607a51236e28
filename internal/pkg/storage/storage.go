// Package storage abstracts where uploaded handbook documents live. The
// local-disk implementation is the default; the interface keeps the document
// service unaware of the backing medium.
package storage

import (
	"context"
	"io"
)

// Storage persists file blobs under relative paths.
type Storage interface {
	// Save writes content at the given relative path, creating parent
	// directories as needed.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get opens the blob at path for reading. The caller closes it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the blob at path. Deleting a missing blob is not an
	// error.
	Delete(ctx context.Context, path string) error
}
