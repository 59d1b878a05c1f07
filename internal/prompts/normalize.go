package prompts

import (
	"slices"
	"strings"
)

// Normalizer extracts bare class names from predicted prompts.
type Normalizer struct {
	stages []string
	prefix string
}

// NewNormalizer creates a Normalizer. Stages are checked in the given order.
func NewNormalizer(stages []string, prefix string) Normalizer {
	return Normalizer{
		stages: slices.Clone(stages),
		prefix: prefix,
	}
}

// Extract returns the class name carried by predicted.
func (n Normalizer) Extract(predicted string) string {
	return ExtractClass(predicted, n.stages, n.prefix)
}

// ExtractClass strips prefix and at most one leading "{stage} " token from
// predicted. Strings without prefix are returned unchanged. No trimming or
// case folding is applied to the result.
func ExtractClass(predicted string, stages []string, prefix string) string {
	_, rest, found := strings.Cut(predicted, prefix)
	if !found {
		return predicted
	}

	for _, stage := range stages {
		if stage == "" {
			continue
		}
		if after, ok := strings.CutPrefix(rest, stage+" "); ok {
			return after
		}
	}

	return rest
}
