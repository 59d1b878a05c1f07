package runs

import (
	"github.com/JaimeStill/pest-lab/internal/classify"
	"github.com/JaimeStill/pest-lab/pkg/query"
	"github.com/JaimeStill/pest-lab/pkg/repository"
)

var runProjection = query.NewProjectionMap("public", "runs", "r").
	Project("id", "ID").
	Project("status", "Status").
	Project("backend", "Backend").
	Project("dataset_root", "DatasetRoot").
	Project("params", "Params").
	Project("summary", "Summary").
	Project("total_files", "TotalFiles").
	Project("total_correct", "TotalCorrect").
	Project("overall_accuracy", "OverallAccuracy").
	Project("error_message", "ErrorMessage").
	Project("started_at", "StartedAt").
	Project("completed_at", "CompletedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var runDefaultSort = query.SortField{Field: "CreatedAt", Descending: true}

// JSON columns are nullable; they scan through []byte so NULL becomes nil.
func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	var params, summary []byte
	err := s.Scan(
		&r.ID,
		&r.Status,
		&r.Backend,
		&r.DatasetRoot,
		&params,
		&summary,
		&r.TotalFiles,
		&r.TotalCorrect,
		&r.OverallAccuracy,
		&r.ErrorMessage,
		&r.StartedAt,
		&r.CompletedAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	r.Params, r.Summary = params, summary
	return r, err
}

var stageProjection = query.NewProjectionMap("public", "stages", "s").
	Project("id", "ID").
	Project("run_id", "RunID").
	Project("node_name", "NodeName").
	Project("iteration", "Iteration").
	Project("status", "Status").
	Project("input_snapshot", "InputSnapshot").
	Project("output_snapshot", "OutputSnapshot").
	Project("duration_ms", "DurationMs").
	Project("error_message", "ErrorMessage").
	Project("created_at", "CreatedAt")

var stageDefaultSort = query.SortField{Field: "CreatedAt"}

func scanStage(s repository.Scanner) (Stage, error) {
	var st Stage
	var input, output []byte
	err := s.Scan(
		&st.ID,
		&st.RunID,
		&st.NodeName,
		&st.Iteration,
		&st.Status,
		&input,
		&output,
		&st.DurationMs,
		&st.ErrorMessage,
		&st.CreatedAt,
	)
	st.InputSnapshot, st.OutputSnapshot = input, output
	return st, err
}

const recordColumns = `class, file, predicted_label, predicted_class, confidence, is_correct`

func scanRecord(s repository.Scanner) (classify.Record, error) {
	var rec classify.Record
	err := s.Scan(
		&rec.Class,
		&rec.File,
		&rec.PredictedPrompt,
		&rec.PredictedClass,
		&rec.Confidence,
		&rec.Correct,
	)
	return rec, err
}

// RunFilters contains optional criteria for filtering run queries.
type RunFilters struct {
	Status  *RunStatus
	Backend *string
}

// Apply adds filter conditions to the query builder.
func (f RunFilters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Backend", f.Backend)
}
