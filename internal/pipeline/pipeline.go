// Package pipeline runs a full evaluation as a state graph:
// catalog -> scan -> classify -> summarize -> report.
//
// Each node hands its heavy outputs (images, records, aggregator) to the next
// through the run's execution; graph state carries only counts, the summary,
// and the written report keys, so checkpoints and stage snapshots stay small.
package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/observability"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/JaimeStill/pest-lab/internal/classify"
	"github.com/JaimeStill/pest-lab/internal/dataset"
	"github.com/JaimeStill/pest-lab/internal/prompts"
	"github.com/JaimeStill/pest-lab/internal/reports"
	"github.com/JaimeStill/pest-lab/internal/runs"
	"github.com/JaimeStill/pest-lab/internal/stats"
	"github.com/JaimeStill/pest-lab/pkg/pagination"
	"github.com/google/uuid"
)

// GraphName identifies the evaluation graph in checkpoints and events.
const GraphName = "evaluate"

// Deps holds everything a pipeline needs. Catalog, Dataset, and Classifier
// are required. Pages, Reports, and DB are optional.
type Deps struct {
	Catalog    *prompts.Config
	Dataset    *dataset.Config
	Classifier classify.Classifier

	// Backend names the classifier in persisted runs.
	Backend string

	// MaxImageSize rejects larger images at load time. Zero disables the limit.
	MaxImageSize int64

	// Pages expands PDF scouting sheets. Nil skips PDFs.
	Pages *dataset.PageRenderer

	// Reports stores report files after each run. Nil skips reports.
	Reports *reports.Writer

	// DB enables run persistence, stage history, and durable checkpoints.
	DB         *sql.DB
	Pagination pagination.Config

	// Checkpoints overrides where graph checkpoints go. Nil selects Postgres
	// when DB is set and the orchestration memory store otherwise.
	Checkpoints state.CheckpointStore

	Logger *slog.Logger
}

// Result is the outcome of a completed run.
type Result struct {
	RunID     uuid.UUID
	Timestamp time.Time
	Summary   stats.RunSummary
	Reports   []string
}

// Pipeline executes evaluation runs.
type Pipeline struct {
	deps   Deps
	runs   runs.System
	logger *slog.Logger
}

// New validates deps and creates a pipeline.
func New(deps Deps) (*Pipeline, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog config required")
	}
	if deps.Dataset == nil {
		return nil, fmt.Errorf("dataset config required")
	}
	if deps.Classifier == nil {
		return nil, classify.ErrNoClassifier
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	p := &Pipeline{
		deps:   deps,
		logger: deps.Logger.With("system", "pipeline"),
	}
	if deps.DB != nil {
		p.runs = runs.New(deps.DB, deps.Logger, deps.Pagination)
	}
	return p, nil
}

// Run evaluates the configured dataset. Per-image failures are part of the
// result; only startup failures and cancellation return an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID, err := p.begin(ctx)
	if err != nil {
		return nil, err
	}

	exec := &execution{
		root:      p.deps.Dataset.Root,
		timestamp: time.Now(),
	}

	observer, store := p.sinks(runID)

	cfg := config.DefaultGraphConfig(GraphName)
	cfg.Checkpoint.Interval = 1
	cfg.Checkpoint.Preserve = p.deps.DB != nil

	graph, err := state.NewGraphWithDeps(cfg, observer, store)
	if err != nil {
		return nil, p.fail(ctx, runID, err)
	}

	if err := p.build(graph, exec); err != nil {
		return nil, p.fail(ctx, runID, err)
	}

	initial := state.New(nil).Set("dataset_root", exec.root)
	initial.RunID = runID.String()

	p.logger.Info("run started", "run_id", runID, "root", exec.root, "backend", p.deps.Backend)

	if _, err := graph.Execute(ctx, initial); err != nil {
		if exec.err != nil {
			err = exec.err
		}
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		}
		return nil, p.fail(ctx, runID, err)
	}

	res := &Result{
		RunID:     runID,
		Timestamp: exec.timestamp,
		Summary:   exec.summary,
		Reports:   exec.reports,
	}

	if err := p.complete(ctx, runID, exec); err != nil {
		return res, err
	}

	p.logger.Info("run completed",
		"run_id", runID,
		"files", res.Summary.TotalFiles,
		"correct", res.Summary.TotalCorrect,
		"accuracy", fmt.Sprintf("%.1f%%", res.Summary.OverallAccuracy),
	)
	return res, nil
}

// sinks selects where graph events and checkpoints go. Events always reach
// the log and also reach Postgres when persistence is enabled.
func (p *Pipeline) sinks(runID uuid.UUID) (observability.Observer, state.CheckpointStore) {
	observer := MultiObserver{NewLogObserver(p.deps.Logger)}
	store := p.deps.Checkpoints

	if p.deps.DB != nil {
		observer = append(observer, runs.NewPostgresObserver(p.deps.DB, runID, p.deps.Logger))
		if store == nil {
			store = runs.NewPostgresCheckpointStore(p.deps.DB, p.deps.Logger)
		}
	}

	if store == nil {
		store = state.NewMemoryCheckpointStore()
	}
	return observer, store
}

func (p *Pipeline) begin(ctx context.Context) (uuid.UUID, error) {
	if p.runs == nil {
		return uuid.New(), nil
	}

	run, err := p.runs.Create(ctx, runs.CreateCommand{
		Backend:     p.deps.Backend,
		DatasetRoot: p.deps.Dataset.Root,
		Params: map[string]any{
			"prompt_prefix": p.deps.Catalog.Prefix,
			"render_pdfs":   p.deps.Pages != nil,
		},
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("create run: %w", err)
	}

	if _, err := p.runs.Start(ctx, run.ID); err != nil {
		return uuid.Nil, fmt.Errorf("start run: %w", err)
	}
	return run.ID, nil
}

func (p *Pipeline) complete(ctx context.Context, runID uuid.UUID, exec *execution) error {
	if p.runs == nil {
		return nil
	}

	if err := p.runs.SaveRecords(ctx, runID, exec.records); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	if _, err := p.runs.Complete(ctx, runID, runs.StatusCompleted, &exec.summary, nil); err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

// fail records the terminal status of a failed run and returns err.
func (p *Pipeline) fail(ctx context.Context, runID uuid.UUID, err error) error {
	p.logger.Error("run failed", "run_id", runID, "error", err)

	if p.runs == nil {
		return err
	}

	status := runs.StatusFailed
	if errors.Is(err, ErrCancelled) {
		status = runs.StatusCancelled
		ctx = context.WithoutCancel(ctx)
	}

	msg := err.Error()
	if _, updateErr := p.runs.Complete(ctx, runID, status, nil, &msg); updateErr != nil {
		p.logger.Error("failed to finalize run", "run_id", runID, "error", updateErr)
	}
	return err
}
