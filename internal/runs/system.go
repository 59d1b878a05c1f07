// Package runs persists evaluation runs in PostgreSQL: run lifecycle, the
// per-image records of each run, pipeline stage history, and graph
// checkpoints.
package runs

import (
	"context"
	"embed"

	"github.com/JaimeStill/pest-lab/internal/classify"
	"github.com/JaimeStill/pest-lab/internal/stats"
	"github.com/JaimeStill/pest-lab/pkg/pagination"
	"github.com/google/uuid"
)

// Migrations holds the schema migrations applied by database.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the SQL files.
const MigrationsDir = "migrations"

// System defines run persistence operations.
type System interface {
	// Create registers a pending run.
	Create(ctx context.Context, cmd CreateCommand) (*Run, error)

	// Start marks a pending run as running.
	Start(ctx context.Context, id uuid.UUID) (*Run, error)

	// Complete records the terminal status of a run. summary is nil unless the
	// run completed; errMsg is nil unless it did not.
	Complete(ctx context.Context, id uuid.UUID, status RunStatus, summary *stats.RunSummary, errMsg *string) (*Run, error)

	// SaveRecords stores the ordered per-image records of a run, replacing
	// any previously saved.
	SaveRecords(ctx context.Context, id uuid.UUID, records []classify.Record) error

	// Find retrieves a run by ID.
	Find(ctx context.Context, id uuid.UUID) (*Run, error)

	// List returns a page of runs matching filters, newest first by default.
	List(ctx context.Context, page pagination.PageRequest, filters RunFilters) (*pagination.PageResult[Run], error)

	// Records returns the run's records in processing order.
	Records(ctx context.Context, id uuid.UUID) ([]classify.Record, error)

	// Stages returns the run's pipeline stage history in execution order.
	Stages(ctx context.Context, id uuid.UUID) ([]Stage, error)
}
