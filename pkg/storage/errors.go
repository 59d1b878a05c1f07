package storage

import "errors"

// Errors returned by System implementations.
var (
	ErrNotFound         = errors.New("storage: key not found")
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey covers empty keys and keys that escape the base path.
	ErrInvalidKey = errors.New("storage: invalid key")
)
