package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/pest-lab/internal/classify"
	"github.com/JaimeStill/pest-lab/internal/stats"
	"github.com/JaimeStill/pest-lab/pkg/pagination"
	"github.com/JaimeStill/pest-lab/pkg/query"
	"github.com/JaimeStill/pest-lab/pkg/repository"
	"github.com/google/uuid"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a PostgreSQL-backed run System.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "runs"),
		pagination: pagination,
	}
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Run, error) {
	var params []byte
	if cmd.Params != nil {
		var err error
		params, err = json.Marshal(cmd.Params)
		if err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
	}

	q := fmt.Sprintf(`
		INSERT INTO runs (backend, dataset_root, params, status)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, runColumns)

	run, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Run, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Backend, cmd.DatasetRoot, params, StatusPending}, scanRun)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run created", "id", run.ID, "backend", run.Backend)
	return &run, nil
}

func (r *repo) Start(ctx context.Context, id uuid.UUID) (*Run, error) {
	q := fmt.Sprintf(`
		UPDATE runs SET status = $1, started_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING %s`, runColumns)

	run, err := repository.QueryOne(ctx, r.db, q, []any{StatusRunning, id, StatusPending}, scanRun)
	if err != nil {
		mapped := repository.MapError(err, ErrNotFound, ErrDuplicate)
		if errors.Is(mapped, ErrNotFound) {
			return nil, r.transitionError(ctx, id)
		}
		return nil, mapped
	}
	return &run, nil
}

func (r *repo) Complete(ctx context.Context, id uuid.UUID, status RunStatus, summary *stats.RunSummary, errMsg *string) (*Run, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("%w: %s is not terminal", ErrInvalidStatus, status)
	}

	var (
		summaryData []byte
		files       int
		correct     int
		accuracy    float64
	)
	if summary != nil {
		var err error
		summaryData, err = json.Marshal(summary)
		if err != nil {
			return nil, fmt.Errorf("marshal summary: %w", err)
		}
		files, correct, accuracy = summary.TotalFiles, summary.TotalCorrect, summary.OverallAccuracy
	}

	q := fmt.Sprintf(`
		UPDATE runs SET status = $1, summary = $2, total_files = $3, total_correct = $4,
			overall_accuracy = $5, error_message = $6, completed_at = NOW(), updated_at = NOW()
		WHERE id = $7
		RETURNING %s`, runColumns)

	run, err := repository.QueryOne(ctx, r.db, q, []any{status, summaryData, files, correct, accuracy, errMsg, id}, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run completed", "id", id, "status", status)
	return &run, nil
}

func (r *repo) SaveRecords(ctx context.Context, id uuid.UUID, records []classify.Record) error {
	const insert = `
		INSERT INTO records (run_id, position, class, file, predicted_label, predicted_class, confidence, is_correct)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE run_id = $1`, id); err != nil {
			return struct{}{}, err
		}

		stmt, err := tx.PrepareContext(ctx, insert)
		if err != nil {
			return struct{}{}, err
		}
		defer stmt.Close()

		for i, rec := range records {
			_, err := stmt.ExecContext(ctx, id, i, rec.Class, rec.File,
				rec.PredictedPrompt, rec.PredictedClass, rec.Confidence, rec.Correct)
			if err != nil {
				return struct{}{}, fmt.Errorf("insert record %d: %w", i, err)
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Debug("records saved", "id", id, "count", len(records))
	return nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(runProjection, runDefaultSort).BuildSingle("ID", id)
	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters RunFilters) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	countBuilder := query.NewBuilder(runProjection, runDefaultSort)
	filters.Apply(countBuilder)
	countQuery, countArgs := countBuilder.BuildCount()

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageBuilder := query.NewBuilder(runProjection, runDefaultSort)
	filters.Apply(pageBuilder)
	pageBuilder.OrderBy(page.Sort...)
	pageQuery, pageArgs := pageBuilder.BuildPage(page.Page, page.PageSize)

	runs, err := repository.QueryMany(ctx, r.db, pageQuery, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(runs, total, page)
	return &result, nil
}

func (r *repo) Records(ctx context.Context, id uuid.UUID) ([]classify.Record, error) {
	q := fmt.Sprintf(`SELECT %s FROM records WHERE run_id = $1 ORDER BY position`, recordColumns)

	records, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return records, nil
}

func (r *repo) Stages(ctx context.Context, id uuid.UUID) ([]Stage, error) {
	q, args := query.NewBuilder(stageProjection, stageDefaultSort).
		WhereEquals("RunID", id).
		BuildAll()

	stages, err := repository.QueryMany(ctx, r.db, q, args, scanStage)
	if err != nil {
		return nil, fmt.Errorf("query stages: %w", err)
	}
	return stages, nil
}

func (r *repo) transitionError(ctx context.Context, id uuid.UUID) error {
	run, err := r.Find(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: run is %s", ErrInvalidStatus, run.Status)
}

// runColumns lists the run columns unqualified for RETURNING clauses, in
// scanRun order.
const runColumns = `id, status, backend, dataset_root, params, summary, total_files, total_correct,
		overall_accuracy, error_message, started_at, completed_at, created_at, updated_at`
