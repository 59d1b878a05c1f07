package classify

import "errors"

// Classification errors. ErrClassification is the per-image failure kind;
// the engine records it and moves on.
var (
	ErrClassification  = errors.New("classification failed")
	ErrMalformedOutput = errors.New("classifier returned malformed output")
	ErrNoClassifier    = errors.New("classifier required")
)
