// Package storage provides blob storage for evaluation artifacts: report files
// and rendered document pages. Keys are slash-separated relative paths.
package storage

import "context"

// System defines the storage operations used by report writers and the dataset
// page cache.
type System interface {
	// Init prepares the backing store. For filesystem storage it creates the
	// base directory.
	Init(ctx context.Context) error

	// Store saves data at key, overwriting any existing content.
	// Returns ErrInvalidKey if the key is empty or contains path traversal.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the data stored at key.
	// Returns ErrNotFound if the key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is present and readable.
	Exists(ctx context.Context, key string) (bool, error)

	// Path resolves key to a location that local tools can open directly.
	Path(ctx context.Context, key string) (string, error)
}
