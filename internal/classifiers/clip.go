package classifiers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/JaimeStill/pest-lab/internal/classify"
)

// CLIP classifies images through a CLIP-style inference server. The server
// scores the image against every prompt; probabilities are derived locally.
type CLIP struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

type clipRequest struct {
	Image       string   `json:"image"`
	ContentType string   `json:"content_type"`
	Prompts     []string `json:"prompts"`
}

type clipResponse struct {
	LogitsPerImage [][]float64 `json:"logits_per_image"`
}

// NewCLIP creates a CLIP client for endpoint.
func NewCLIP(endpoint string, timeout time.Duration, logger *slog.Logger) *CLIP {
	return &CLIP{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With("system", "clip"),
	}
}

// Classify returns the most probable prompt and its softmax probability.
func (c *CLIP) Classify(ctx context.Context, img classify.Image, prompts []string) (classify.Prediction, error) {
	data, contentType, err := img.Load(ctx)
	if err != nil {
		return classify.Prediction{}, err
	}

	body, err := json.Marshal(clipRequest{
		Image:       base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
		Prompts:     prompts,
	})
	if err != nil {
		return classify.Prediction{}, fmt.Errorf("%w: %v", ErrInference, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return classify.Prediction{}, fmt.Errorf("%w: %v", ErrInference, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return classify.Prediction{}, fmt.Errorf("%w: %v", ErrInference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return classify.Prediction{}, fmt.Errorf("%w: status %d: %s", ErrInference, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out clipResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return classify.Prediction{}, fmt.Errorf("%w: %v", ErrParseResponse, err)
	}

	if len(out.LogitsPerImage) == 0 || len(out.LogitsPerImage[0]) != len(prompts) {
		return classify.Prediction{}, fmt.Errorf("%w: expected %d logits", ErrParseResponse, len(prompts))
	}

	probs := Softmax(out.LogitsPerImage[0])
	idx := Argmax(probs)

	c.logger.Debug("inference complete", "image", img.ID(), "duration", time.Since(start).String())

	return classify.Prediction{
		Prompt:     prompts[idx],
		Confidence: probs[idx],
	}, nil
}

// Softmax converts logits into probabilities that sum to one.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}

	maxLogit := math.Inf(-1)
	for _, l := range logits {
		maxLogit = math.Max(maxLogit, l)
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(l - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Argmax returns the index of the largest value; the first wins ties.
// It returns -1 for an empty slice.
func Argmax(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}
