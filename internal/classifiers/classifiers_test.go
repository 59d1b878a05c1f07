package classifiers_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/pest-lab/internal/classifiers"
	"github.com/JaimeStill/pest-lab/pkg/logging"
)

type memImage struct {
	id   string
	data []byte
}

func (m memImage) ID() string { return m.id }

func (m memImage) Load(ctx context.Context) ([]byte, string, error) {
	return m.data, "image/jpeg", nil
}

var candidates = []string{
	"a photo of adult Aphids",
	"a photo of larva Aphids",
	"a photo of Citrus Canker",
}

func TestSoftmax(t *testing.T) {
	probs := classifiers.Softmax([]float64{1, 2, 3})

	var sum float64
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("sum = %v, want 1", sum)
	}
	if !(probs[2] > probs[1] && probs[1] > probs[0]) {
		t.Errorf("Softmax() = %v, want increasing", probs)
	}

	large := classifiers.Softmax([]float64{1000, 1000})
	if math.IsNaN(large[0]) || math.Abs(large[0]-0.5) > 1e-9 {
		t.Errorf("Softmax() of large logits = %v, want [0.5 0.5]", large)
	}
}

func TestArgmax(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   int
	}{
		{"empty", nil, -1},
		{"single", []float64{0.2}, 0},
		{"last", []float64{0.1, 0.2, 0.7}, 2},
		{"tie keeps first", []float64{0.4, 0.4, 0.2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifiers.Argmax(tt.values); got != tt.want {
				t.Errorf("Argmax(%v) = %d, want %d", tt.values, got, tt.want)
			}
		})
	}
}

func TestCLIP_Classify(t *testing.T) {
	var got struct {
		Image       string   `json:"image"`
		ContentType string   `json:"content_type"`
		Prompts     []string `json:"prompts"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"logits_per_image": [[0.0, 5.0, 0.0]]}`))
	}))
	defer srv.Close()

	clip := classifiers.NewCLIP(srv.URL, 5*time.Second, logging.Discard())
	pred, err := clip.Classify(context.Background(), memImage{id: "1.jpg", data: []byte("pixels")}, candidates)
	if err != nil {
		t.Fatalf("Classify() failed: %v", err)
	}

	if pred.Prompt != candidates[1] {
		t.Errorf("Prompt = %q, want %q", pred.Prompt, candidates[1])
	}
	if pred.Confidence < 0.98 || pred.Confidence > 1 {
		t.Errorf("Confidence = %v, want about 0.987", pred.Confidence)
	}

	if got.ContentType != "image/jpeg" {
		t.Errorf("content_type = %q, want image/jpeg", got.ContentType)
	}
	if got.Image != base64.StdEncoding.EncodeToString([]byte("pixels")) {
		t.Errorf("image = %q, want base64 of pixels", got.Image)
	}
	if len(got.Prompts) != len(candidates) {
		t.Errorf("server saw %d prompts, want %d", len(got.Prompts), len(candidates))
	}
}

func TestCLIP_ClassifyErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, "model not loaded", classifiers.ErrInference},
		{"bad json", http.StatusOK, "not json", classifiers.ErrParseResponse},
		{"wrong logit count", http.StatusOK, `{"logits_per_image": [[1.0]]}`, classifiers.ErrParseResponse},
		{"no rows", http.StatusOK, `{"logits_per_image": []}`, classifiers.ErrParseResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			clip := classifiers.NewCLIP(srv.URL, 5*time.Second, logging.Discard())
			_, err := clip.Classify(context.Background(), memImage{id: "x.jpg"}, candidates)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Classify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    classifiers.Choice
		wantErr error
	}{
		{"direct json", `{"index": 2, "confidence": 0.8}`, classifiers.Choice{Index: 2, Confidence: 0.8}, nil},
		{"fenced block", "Here you go:\n```json\n{\"index\": 1, \"confidence\": 0.6}\n```", classifiers.Choice{Index: 1, Confidence: 0.6}, nil},
		{"clamped high", `{"index": 3, "confidence": 1.7}`, classifiers.Choice{Index: 3, Confidence: 1}, nil},
		{"clamped low", `{"index": 3, "confidence": -2}`, classifiers.Choice{Index: 3, Confidence: 0}, nil},
		{"index zero", `{"index": 0, "confidence": 0.5}`, classifiers.Choice{}, classifiers.ErrInvalidIndex},
		{"index too large", `{"index": 4, "confidence": 0.5}`, classifiers.Choice{}, classifiers.ErrInvalidIndex},
		{"prose", "I think it is an aphid.", classifiers.Choice{}, classifiers.ErrParseResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifiers.ParseChoice(tt.content, 3)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseChoice() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseChoice() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseChoice() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestVision_Classify(t *testing.T) {
	var prompt string
	var images []string

	ask := func(ctx context.Context, p string, imgs []string) (string, error) {
		prompt, images = p, imgs
		return "```json\n{\"index\": 3, \"confidence\": 0.9}\n```", nil
	}

	v := classifiers.NewVision(ask, logging.Discard())
	pred, err := v.Classify(context.Background(), memImage{id: "1.jpg", data: []byte("pixels")}, candidates)
	if err != nil {
		t.Fatalf("Classify() failed: %v", err)
	}

	if pred.Prompt != "a photo of Citrus Canker" || pred.Confidence != 0.9 {
		t.Errorf("Classify() = %+v", pred)
	}
	if !strings.Contains(prompt, "2. a photo of larva Aphids") {
		t.Errorf("prompt does not number candidates:\n%s", prompt)
	}
	if len(images) != 1 || !strings.HasPrefix(images[0], "data:image/jpeg;base64,") {
		t.Errorf("images = %v, want one jpeg data URI", images)
	}
}

func TestVision_ClassifyAskError(t *testing.T) {
	ask := func(ctx context.Context, p string, imgs []string) (string, error) {
		return "", errors.New("provider unavailable")
	}

	v := classifiers.NewVision(ask, logging.Discard())
	_, err := v.Classify(context.Background(), memImage{id: "1.jpg"}, candidates)
	if !errors.Is(err, classifiers.ErrInference) {
		t.Errorf("Classify() error = %v, want ErrInference", err)
	}
}

func TestConfig_Finalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     classifiers.Config
		wantErr bool
	}{
		{"defaults", classifiers.Config{}, false},
		{"vision without agent config", classifiers.Config{Backend: classifiers.BackendVision}, true},
		{"vision with agent config", classifiers.Config{Backend: classifiers.BackendVision, AgentConfig: "agent.json"}, false},
		{"unknown backend", classifiers.Config{Backend: "resnet"}, true},
		{"bad timeout", classifiers.Config{Timeout: "soon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := &classifiers.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}

	c, err := classifiers.New(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, ok := c.(*classifiers.CLIP); !ok {
		t.Errorf("New() = %T, want *classifiers.CLIP", c)
	}

	_, err = classifiers.New(&classifiers.Config{Backend: "resnet"}, logging.Discard())
	if !errors.Is(err, classifiers.ErrUnknownBackend) {
		t.Errorf("New() error = %v, want ErrUnknownBackend", err)
	}

	_, err = classifiers.New(&classifiers.Config{Backend: classifiers.BackendVision, AgentConfig: "missing.json"}, logging.Discard())
	if err == nil {
		t.Error("New() with missing agent config succeeded, want error")
	}
}
