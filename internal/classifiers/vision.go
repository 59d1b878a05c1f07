package classifiers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	agtconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/JaimeStill/go-agents/pkg/response"

	"github.com/JaimeStill/pest-lab/internal/classify"
)

// AskFunc sends a prompt with images to a multimodal model and returns the
// text of its reply.
type AskFunc func(ctx context.Context, prompt string, images []string) (string, error)

type visionAgent interface {
	Vision(ctx context.Context, prompt string, images []string, opts ...map[string]any) (*response.ChatResponse, error)
}

// Vision classifies images by asking a vision model to pick one prompt from a
// numbered list.
type Vision struct {
	ask    AskFunc
	logger *slog.Logger
}

// NewVision creates a vision classifier over ask.
func NewVision(ask AskFunc, logger *slog.Logger) *Vision {
	return &Vision{
		ask:    ask,
		logger: logger.With("system", "vision"),
	}
}

// LoadAgent builds a go-agents agent from a JSON configuration file merged
// over the library defaults and adapts it to AskFunc.
func LoadAgent(path string, opts map[string]any) (AskFunc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent config: %w", err)
	}

	cfg := agtconfig.DefaultAgentConfig()

	var userCfg agtconfig.AgentConfig
	if err := json.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse agent config: %w", err)
	}

	cfg.Merge(&userCfg)

	a, err := agent.New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	return AgentAsk(a, opts), nil
}

// AgentAsk adapts a go-agents vision agent to AskFunc. opts are sent with
// every request.
func AgentAsk(a visionAgent, opts map[string]any) AskFunc {
	return func(ctx context.Context, prompt string, images []string) (string, error) {
		var resp *response.ChatResponse
		var err error
		if len(opts) > 0 {
			resp, err = a.Vision(ctx, prompt, images, opts)
		} else {
			resp, err = a.Vision(ctx, prompt, images)
		}
		if err != nil {
			return "", err
		}
		return resp.Content(), nil
	}
}

// Classify asks the model for a choice and maps it back to a prompt.
func (v *Vision) Classify(ctx context.Context, img classify.Image, prompts []string) (classify.Prediction, error) {
	data, contentType, err := img.Load(ctx)
	if err != nil {
		return classify.Prediction{}, err
	}

	start := time.Now()
	content, err := v.ask(ctx, BuildChoicePrompt(prompts), []string{buildDataURI(data, contentType)})
	if err != nil {
		return classify.Prediction{}, fmt.Errorf("%w: %v", ErrInference, err)
	}

	choice, err := ParseChoice(content, len(prompts))
	if err != nil {
		return classify.Prediction{}, err
	}

	v.logger.Debug("vision choice", "image", img.ID(), "index", choice.Index, "duration", time.Since(start).String())

	return classify.Prediction{
		Prompt:     prompts[choice.Index-1],
		Confidence: choice.Confidence,
	}, nil
}

// BuildChoicePrompt lists prompts 1..n and asks for a single JSON choice.
func BuildChoicePrompt(prompts []string) string {
	var sb strings.Builder
	sb.WriteString("You are identifying agricultural pests in a photograph.\n")
	sb.WriteString("Choose the single description below that best matches the image.\n\n")

	for i, p := range prompts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, p)
	}

	sb.WriteString("\nRespond with JSON only, in the form ")
	sb.WriteString(`{"index": <number from the list>, "confidence": <0.0 to 1.0>}`)
	sb.WriteString(".")
	return sb.String()
}

func buildDataURI(data []byte, contentType string) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", contentType, encoded)
}
