package prompts

import "errors"

// ErrEmptyCatalog is returned when labels or stages would produce no prompts.
// A classifier cannot be invoked with zero candidates.
var ErrEmptyCatalog = errors.New("prompt catalog is empty")
