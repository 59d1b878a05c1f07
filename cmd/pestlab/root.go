package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/pest-lab/internal/classifiers"
	"github.com/JaimeStill/pest-lab/internal/config"
	"github.com/JaimeStill/pest-lab/pkg/database"
	"github.com/JaimeStill/pest-lab/pkg/logging"
	"github.com/spf13/cobra"
)

var errDatabaseDisabled = errors.New("database is disabled: set database.enabled or PESTLAB_DATABASE_ENABLED")

// app holds state shared by every command. Flag values are applied over the
// loaded configuration before it is finalized.
type app struct {
	configPath string
	root       string
	backend    string
	endpoint   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "pestlab",
		Short: "Zero-shot farm-insect classification benchmark",
		Long: `pestlab runs every image of a labelled dataset through a zero-shot
classifier, compares each prediction with the folder it came from, and
writes per-class accuracy reports.

Configuration is read from config.toml (or --config), overlaid by
config.<PESTLAB_ENV>.toml, and overridden by PESTLAB_* environment variables.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.BaseConfigFile, "Configuration file")

	cmd.AddCommand(
		newRunCmd(a),
		newPromptsCmd(a),
		newMigrateCmd(a),
		newRunsCmd(a),
	)

	return cmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if a.root != "" {
		cfg.Dataset.Root = a.root
	}
	if a.backend != "" {
		cfg.Classifier.Backend = classifiers.Backend(a.backend)
	}
	if a.endpoint != "" {
		cfg.Classifier.Endpoint = a.endpoint
	}

	if err := cfg.Finalize(); err != nil {
		return fmt.Errorf("finalize configuration: %w", err)
	}

	a.cfg = cfg
	out := cmd.ErrOrStderr()
	if cfg.Logging.Output == logging.OutputStdout {
		out = cmd.OutOrStdout()
	}
	a.logger = logging.NewWithWriter(&cfg.Logging, out)
	return nil
}

// requireDB connects to the database for commands that cannot run without
// persistence.
func (a *app) requireDB(ctx context.Context) (*sql.DB, error) {
	if !a.cfg.Database.Enabled {
		return nil, errDatabaseDisabled
	}
	return database.Open(ctx, &a.cfg.Database)
}
