package runs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of an evaluation run.
type RunStatus string

const (
	StatusPending   RunStatus = "pending"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
	StatusCancelled RunStatus = "cancelled"
)

// Terminal reports whether s ends a run.
func (s RunStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// StageStatus is the state of a single pipeline node execution.
type StageStatus string

const (
	StageStarted   StageStatus = "started"
	StageCompleted StageStatus = "completed"
	StageFailed    StageStatus = "failed"
)

// Run is a persisted evaluation run.
type Run struct {
	ID              uuid.UUID       `json:"id"`
	Status          RunStatus       `json:"status"`
	Backend         string          `json:"backend"`
	DatasetRoot     string          `json:"dataset_root"`
	Params          json.RawMessage `json:"params,omitempty"`
	Summary         json.RawMessage `json:"summary,omitempty"`
	TotalFiles      int             `json:"total_files"`
	TotalCorrect    int             `json:"total_correct"`
	OverallAccuracy float64         `json:"overall_accuracy"`
	ErrorMessage    *string         `json:"error_message,omitempty"`
	StartedAt       *time.Time      `json:"started_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Stage is a recorded pipeline node execution.
type Stage struct {
	ID             uuid.UUID       `json:"id"`
	RunID          uuid.UUID       `json:"run_id"`
	NodeName       string          `json:"node_name"`
	Iteration      int             `json:"iteration"`
	Status         StageStatus     `json:"status"`
	InputSnapshot  json.RawMessage `json:"input_snapshot,omitempty"`
	OutputSnapshot json.RawMessage `json:"output_snapshot,omitempty"`
	DurationMs     *int            `json:"duration_ms,omitempty"`
	ErrorMessage   *string         `json:"error_message,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateCommand contains the data required to register a new run.
type CreateCommand struct {
	Backend     string         `json:"backend"`
	DatasetRoot string         `json:"dataset_root"`
	Params      map[string]any `json:"params,omitempty"`
}
