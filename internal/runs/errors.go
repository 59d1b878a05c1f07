package runs

import "errors"

// Domain errors for run persistence.
var (
	ErrNotFound      = errors.New("run not found")
	ErrDuplicate     = errors.New("run already exists")
	ErrInvalidStatus = errors.New("invalid status transition")

	ErrCheckpointNotFound = errors.New("checkpoint not found")
)
