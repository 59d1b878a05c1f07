package main

import (
	"github.com/JaimeStill/pest-lab/internal/runs"
	"github.com/JaimeStill/pest-lab/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.Database.Enabled {
				return errDatabaseDisabled
			}

			if err := database.Migrate(&a.cfg.Database, runs.Migrations, runs.MigrationsDir); err != nil {
				return err
			}

			a.logger.Info("migrations applied", "database", a.cfg.Database.Name)
			return nil
		},
	}
}
