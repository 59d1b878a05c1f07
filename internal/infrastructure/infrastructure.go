// Package infrastructure assembles the shared systems a command needs:
// logging, report and page storage, and the optional run database.
package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/pest-lab/internal/config"
	"github.com/JaimeStill/pest-lab/pkg/database"
	"github.com/JaimeStill/pest-lab/pkg/storage"
)

// Infrastructure holds the core systems required by evaluation runs.
type Infrastructure struct {
	Logger  *slog.Logger
	Storage storage.System

	// DB is nil when persistence is disabled.
	DB *sql.DB
}

// New initializes storage and, when enabled, connects to the database.
// cfg must be finalized.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	infra := &Infrastructure{
		Logger:  logger,
		Storage: store,
	}

	if cfg.Database.Enabled {
		db, err := database.Open(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.DB = db
		logger.Info("database connected", "host", cfg.Database.Host, "name", cfg.Database.Name)
	}

	return infra, nil
}

// Close releases the database connection, if any.
func (i *Infrastructure) Close() error {
	if i.DB == nil {
		return nil
	}
	return i.DB.Close()
}
