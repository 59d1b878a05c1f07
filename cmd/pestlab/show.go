package main

import (
	"context"
	"fmt"
	"io"
	"path"
	"text/tabwriter"
	"time"

	"github.com/JaimeStill/pest-lab/internal/infrastructure"
	"github.com/JaimeStill/pest-lab/internal/reports"
	"github.com/JaimeStill/pest-lab/internal/runs"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const detailTimeLayout = "2006-01-02 15:04:05"

func newRunsShowCmd(a *app) *cobra.Command {
	var noReports bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a persisted run with its stages and records",
		Long: `show prints a persisted run, the pipeline stages it went through, and
every classified image. Reports are rebuilt from the stored records into
<reports.dir>/<run-id> unless --no-reports is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showRun(cmd, args[0], !noReports)
		},
	}

	cmd.Flags().BoolVar(&noReports, "no-reports", false, "Skip rebuilding report files")
	return cmd
}

func (a *app) showRun(cmd *cobra.Command, arg string, rebuild bool) error {
	ctx := cmd.Context()

	id, err := uuid.Parse(arg)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", arg, err)
	}

	infra, err := infrastructure.New(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	if infra.DB == nil {
		return errDatabaseDisabled
	}

	var writer *reports.Writer
	if rebuild {
		cfg := a.cfg.Reports
		cfg.Dir = path.Join(cfg.Dir, id.String())
		writer = reports.NewWriter(&cfg, infra.Storage, a.logger)
	}

	sys := runs.New(infra.DB, a.logger, a.cfg.Pagination)
	return describeRun(ctx, cmd.OutOrStdout(), sys, writer, id)
}

// describeRun prints the run, its stages, and its records. When writer is
// set, reports are rendered again from the stored records.
func describeRun(ctx context.Context, out io.Writer, sys runs.System, writer *reports.Writer, id uuid.UUID) error {
	run, err := sys.Find(ctx, id)
	if err != nil {
		return err
	}

	stages, err := sys.Stages(ctx, id)
	if err != nil {
		return err
	}

	records, err := sys.Records(ctx, id)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Run:\t%s\n", run.ID)
	fmt.Fprintf(w, "Status:\t%s\n", run.Status)
	fmt.Fprintf(w, "Backend:\t%s\n", run.Backend)
	fmt.Fprintf(w, "Dataset:\t%s\n", run.DatasetRoot)
	fmt.Fprintf(w, "Accuracy:\t%d/%d (%.1f%%)\n", run.TotalCorrect, run.TotalFiles, run.OverallAccuracy)
	fmt.Fprintf(w, "Created:\t%s\n", run.CreatedAt.Format(detailTimeLayout))
	if run.CompletedAt != nil {
		fmt.Fprintf(w, "Completed:\t%s\n", run.CompletedAt.Format(detailTimeLayout))
	}
	if run.ErrorMessage != nil {
		fmt.Fprintf(w, "Error:\t%s\n", *run.ErrorMessage)
	}

	fmt.Fprintln(w, "\nSTAGE\tITERATION\tSTATUS\tDURATION")
	for _, st := range stages {
		duration := "-"
		if st.DurationMs != nil {
			duration = (time.Duration(*st.DurationMs) * time.Millisecond).String()
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", st.NodeName, st.Iteration, st.Status, duration)
	}

	fmt.Fprintln(w, "\nCLASS\tFILE\tPREDICTED\tCONFIDENCE\tRESULT")
	for _, rec := range records {
		predicted, result := "failed", "incorrect"
		if !rec.Failed() {
			predicted = *rec.PredictedClass
		}
		if rec.Correct {
			result = "correct"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%s\n", rec.Class, rec.File, predicted, rec.Confidence, result)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if writer == nil || len(records) == 0 {
		return nil
	}

	ts := run.CreatedAt
	if run.StartedAt != nil {
		ts = *run.StartedAt
	}

	keys, err := writer.Write(ctx, reports.FromRecords(records, ts))
	if err != nil {
		return fmt.Errorf("rebuild reports: %w", err)
	}

	fmt.Fprintln(out)
	for _, key := range keys {
		fmt.Fprintf(out, "report %s\n", key)
	}
	return nil
}
