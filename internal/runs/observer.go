package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/observability"
	"github.com/JaimeStill/pest-lab/pkg/decode"
	"github.com/JaimeStill/pest-lab/pkg/repository"
	"github.com/google/uuid"
)

type stageKey struct {
	node      string
	iteration int
}

// PostgresObserver records each pipeline node execution of one run as a
// stage row: inserted when the node starts, completed with its duration and
// output when it finishes.
type PostgresObserver struct {
	db     *sql.DB
	runID  uuid.UUID
	logger *slog.Logger

	mu      sync.Mutex
	started map[stageKey]time.Time
}

// NewPostgresObserver creates an observer for the stages of runID.
func NewPostgresObserver(db *sql.DB, runID uuid.UUID, logger *slog.Logger) *PostgresObserver {
	return &PostgresObserver{
		db:      db,
		runID:   runID,
		logger:  logger.With("system", "runs.stages", "run_id", runID),
		started: make(map[stageKey]time.Time),
	}
}

// OnEvent persists node start and completion events. Other events are ignored.
func (o *PostgresObserver) OnEvent(ctx context.Context, event observability.Event) {
	switch event.Type {
	case observability.EventNodeStart:
		data, err := decode.FromMap[NodeStartData](event.Data)
		if err != nil {
			o.logger.Error("failed to decode node start", "error", err)
			return
		}
		o.stageStarted(ctx, data, event.Timestamp)
	case observability.EventNodeComplete:
		data, err := decode.FromMap[NodeCompleteData](event.Data)
		if err != nil {
			o.logger.Error("failed to decode node completion", "error", err)
			return
		}
		o.stageCompleted(ctx, data, event.Timestamp)
	}
}

func (o *PostgresObserver) stageStarted(ctx context.Context, data NodeStartData, at time.Time) {
	o.mu.Lock()
	o.started[stageKey{data.Node, data.Iteration}] = at
	o.mu.Unlock()

	const q = `
		INSERT INTO stages (run_id, node_name, iteration, status, input_snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	input := o.snapshot(data.Node, data.InputSnapshot)
	if _, err := o.db.ExecContext(ctx, q, o.runID, data.Node, data.Iteration, StageStarted, input, at); err != nil {
		o.logger.Error("failed to record stage start", "node", data.Node, "error", err)
	}
}

func (o *PostgresObserver) stageCompleted(ctx context.Context, data NodeCompleteData, at time.Time) {
	key := stageKey{data.Node, data.Iteration}

	var duration *int
	o.mu.Lock()
	if start, ok := o.started[key]; ok {
		ms := int(at.Sub(start).Milliseconds())
		duration = &ms
		delete(o.started, key)
	}
	o.mu.Unlock()

	status := StageCompleted
	var errMsg *string
	if data.Error {
		status = StageFailed
		if data.ErrorMessage != "" {
			errMsg = &data.ErrorMessage
		}
	}

	const q = `
		UPDATE stages
		SET status = $1, duration_ms = $2, output_snapshot = $3, error_message = $4
		WHERE run_id = $5 AND node_name = $6 AND iteration = $7`

	output := o.snapshot(data.Node, data.OutputSnapshot)
	err := repository.ExecExpectOne(ctx, o.db, q, status, duration, output, errMsg, o.runID, data.Node, data.Iteration)
	switch {
	case errors.Is(err, repository.ErrNotAffected):
		o.logger.Warn("completion for unrecorded stage", "node", data.Node, "iteration", data.Iteration)
	case err != nil:
		o.logger.Error("failed to record stage completion", "node", data.Node, "error", err)
	}
}

// snapshot encodes a node's state view. Nil or unencodable snapshots are stored as NULL.
func (o *PostgresObserver) snapshot(node string, v map[string]any) []byte {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		o.logger.Warn("dropping unencodable snapshot", "node", node, "error", err)
		return nil
	}
	return b
}
