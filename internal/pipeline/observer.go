package pipeline

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/go-agents-orchestration/pkg/observability"
	"github.com/JaimeStill/pest-lab/pkg/decode"
)

type nodeEvent struct {
	Node      string `json:"node"`
	Iteration int    `json:"iteration"`
	Error     bool   `json:"error"`
}

// LogObserver reports graph node lifecycle through slog.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an observer writing to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger.With("system", "pipeline.graph")}
}

// OnEvent logs node start and completion at debug and info; everything else at debug.
func (o *LogObserver) OnEvent(ctx context.Context, event observability.Event) {
	switch event.Type {
	case observability.EventNodeStart:
		data, err := decode.FromMap[nodeEvent](event.Data)
		if err != nil {
			return
		}
		o.logger.Debug("node started", "node", data.Node, "iteration", data.Iteration)
	case observability.EventNodeComplete:
		data, err := decode.FromMap[nodeEvent](event.Data)
		if err != nil {
			return
		}
		if data.Error {
			o.logger.Warn("node failed", "node", data.Node, "iteration", data.Iteration)
			return
		}
		o.logger.Info("node completed", "node", data.Node, "iteration", data.Iteration)
	default:
		o.logger.Debug("graph event", "type", event.Type, "source", event.Source)
	}
}

// MultiObserver fans events out to every observer in order.
type MultiObserver []observability.Observer

// OnEvent forwards event to each observer.
func (m MultiObserver) OnEvent(ctx context.Context, event observability.Event) {
	for _, o := range m {
		o.OnEvent(ctx, event)
	}
}
