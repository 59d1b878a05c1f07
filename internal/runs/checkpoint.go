package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/JaimeStill/pest-lab/pkg/repository"
)

// checkpointTimeout bounds each checkpoint statement; the orchestration
// store interface carries no context.
const checkpointTimeout = 10 * time.Second

// PostgresCheckpointStore implements state.CheckpointStore over the
// checkpoints table. Each run keeps only its latest checkpoint.
type PostgresCheckpointStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresCheckpointStore creates a store writing to db.
func NewPostgresCheckpointStore(db *sql.DB, logger *slog.Logger) *PostgresCheckpointStore {
	return &PostgresCheckpointStore{
		db:     db,
		logger: logger.With("system", "runs.checkpoints"),
	}
}

// Save replaces the stored checkpoint of st.RunID.
func (s *PostgresCheckpointStore) Save(st state.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal checkpoint %s: %w", st.RunID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkpointTimeout)
	defer cancel()

	const q = `
		INSERT INTO checkpoints (run_id, state_data, checkpoint_node)
		VALUES ($1, $2, $3)
		ON CONFLICT (run_id) DO UPDATE
		SET state_data = EXCLUDED.state_data,
			checkpoint_node = EXCLUDED.checkpoint_node,
			updated_at = NOW()`

	if err := repository.ExecExpectOne(ctx, s.db, q, st.RunID, data, st.CheckpointNode); err != nil {
		return fmt.Errorf("save checkpoint %s: %w", st.RunID, err)
	}

	s.logger.Debug("checkpoint saved", "run_id", st.RunID, "node", st.CheckpointNode, "bytes", len(data))
	return nil
}

// Load returns the latest checkpoint of runID, or ErrCheckpointNotFound.
func (s *PostgresCheckpointStore) Load(runID string) (state.State, error) {
	ctx, cancel := context.WithTimeout(context.Background(), checkpointTimeout)
	defer cancel()

	data, err := repository.QueryOne(ctx, s.db,
		`SELECT state_data FROM checkpoints WHERE run_id = $1`, []any{runID},
		func(sc repository.Scanner) ([]byte, error) {
			var b []byte
			err := sc.Scan(&b)
			return b, err
		})
	if err != nil {
		return state.State{}, repository.MapError(err, ErrCheckpointNotFound, ErrDuplicate)
	}

	var st state.State
	if err := json.Unmarshal(data, &st); err != nil {
		return state.State{}, fmt.Errorf("decode checkpoint %s: %w", runID, err)
	}
	return st, nil
}

// Delete drops the checkpoint of runID. Deleting a missing checkpoint is not an error.
func (s *PostgresCheckpointStore) Delete(runID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), checkpointTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("delete checkpoint %s: %w", runID, err)
	}
	return nil
}

// List returns the run IDs holding checkpoints, most recently updated first.
func (s *PostgresCheckpointStore) List() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), checkpointTimeout)
	defer cancel()

	return repository.QueryMany(ctx, s.db,
		`SELECT run_id FROM checkpoints ORDER BY updated_at DESC`, nil,
		func(sc repository.Scanner) (string, error) {
			var id string
			err := sc.Scan(&id)
			return id, err
		})
}
