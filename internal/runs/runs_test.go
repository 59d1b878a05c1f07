package runs_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/JaimeStill/go-agents-orchestration/pkg/observability"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/JaimeStill/pest-lab/internal/runs"
	"github.com/JaimeStill/pest-lab/pkg/logging"
	"github.com/JaimeStill/pest-lab/pkg/query"
	"github.com/google/uuid"
)

func TestRunStatus_Terminal(t *testing.T) {
	tests := []struct {
		status runs.RunStatus
		want   bool
	}{
		{runs.StatusPending, false},
		{runs.StatusRunning, false},
		{runs.StatusCompleted, true},
		{runs.StatusFailed, true},
		{runs.StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Terminal(); got != tt.want {
				t.Errorf("Terminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMigrations_Embedded(t *testing.T) {
	entries, err := fs.ReadDir(runs.Migrations, runs.MigrationsDir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}

	var up, down int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			up++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			down++
		}
	}

	if up == 0 || up != down {
		t.Errorf("got %d up and %d down migrations, want matching non-zero counts", up, down)
	}
}

func TestRunFilters_Apply(t *testing.T) {
	projection := query.NewProjectionMap("public", "runs", "r").
		Project("status", "Status").
		Project("backend", "Backend")

	status := runs.StatusCompleted
	backend := "clip"

	tests := []struct {
		name      string
		filters   runs.RunFilters
		wantWhere string
		wantArgs  int
	}{
		{"no filters", runs.RunFilters{}, "", 0},
		{"status only", runs.RunFilters{Status: &status}, " WHERE r.status = $1", 1},
		{"both", runs.RunFilters{Status: &status, Backend: &backend}, " WHERE r.status = $1 AND r.backend = $2", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(projection, query.SortField{Field: "Status"})
			sql, args := tt.filters.Apply(b).BuildCount()

			want := "SELECT COUNT(*) FROM public.runs r" + tt.wantWhere
			if sql != want {
				t.Errorf("sql = %q, want %q", sql, want)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestNewPostgresObserver_ImplementsInterface(t *testing.T) {
	observer := runs.NewPostgresObserver(nil, uuid.New(), logging.Discard())
	if observer == nil {
		t.Fatal("NewPostgresObserver() returned nil")
	}

	var _ observability.Observer = observer
}

func TestNewPostgresCheckpointStore_ImplementsInterface(t *testing.T) {
	store := runs.NewPostgresCheckpointStore(nil, logging.Discard())
	if store == nil {
		t.Fatal("NewPostgresCheckpointStore() returned nil")
	}

	var _ state.CheckpointStore = store
}
