package classify

import "context"

// Image is a lazily loaded image handle.
type Image interface {
	// ID identifies the image in logs and reports.
	ID() string

	// Load returns the raw image bytes and their content type.
	Load(ctx context.Context) ([]byte, string, error)
}

// Prediction is the classifier's best prompt and its confidence in [0,1].
type Prediction struct {
	Prompt     string  `json:"prompt"`
	Confidence float64 `json:"confidence"`
}

// Classifier picks the most likely prompt for an image.
// Implementations must return an element of prompts.
type Classifier interface {
	Classify(ctx context.Context, img Image, prompts []string) (Prediction, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, img Image, prompts []string) (Prediction, error)

// Classify calls f.
func (f ClassifierFunc) Classify(ctx context.Context, img Image, prompts []string) (Prediction, error) {
	return f(ctx, img, prompts)
}
