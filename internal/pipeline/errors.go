package pipeline

import "errors"

// ErrCancelled is returned when the run context ends before the pipeline completes.
var ErrCancelled = errors.New("evaluation cancelled")
