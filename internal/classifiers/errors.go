package classifiers

import "errors"

// Backend errors. Each surfaces as a per-image classification failure.
var (
	ErrUnknownBackend = errors.New("unknown classifier backend")
	ErrInference      = errors.New("inference request failed")
	ErrParseResponse  = errors.New("failed to parse classifier response")
	ErrInvalidIndex   = errors.New("prompt index out of range")
)
