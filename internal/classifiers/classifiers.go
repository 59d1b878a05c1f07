// Package classifiers provides the zero-shot classifier backends: a CLIP
// inference server client and a go-agents vision model.
package classifiers

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/pest-lab/internal/classify"
)

// New builds the classifier selected by cfg.Backend. cfg must be finalized.
func New(cfg *Config, logger *slog.Logger) (classify.Classifier, error) {
	switch cfg.Backend {
	case BackendCLIP:
		return NewCLIP(cfg.Endpoint, cfg.TimeoutDuration(), logger), nil
	case BackendVision:
		ask, err := LoadAgent(cfg.AgentConfig, cfg.Options)
		if err != nil {
			return nil, err
		}
		return NewVision(ask, logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
