package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/JaimeStill/pest-lab/internal/runs"
	"github.com/JaimeStill/pest-lab/pkg/pagination"
	"github.com/JaimeStill/pest-lab/pkg/query"
	"github.com/spf13/cobra"
)

type runsOptions struct {
	page     int
	pageSize int
	sort     string
	status   string
	backend  string
}

func newRunsCmd(a *app) *cobra.Command {
	var opts runsOptions

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted evaluation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listRuns(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "Runs per page (default from pagination config)")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort fields, e.g. -CreatedAt,Status")
	cmd.Flags().StringVar(&opts.status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Filter by classifier backend")

	cmd.AddCommand(newRunsShowCmd(a))
	return cmd
}

func (o runsOptions) filters() runs.RunFilters {
	var f runs.RunFilters
	if o.status != "" {
		status := runs.RunStatus(o.status)
		f.Status = &status
	}
	if o.backend != "" {
		f.Backend = &o.backend
	}
	return f
}

func (a *app) listRuns(cmd *cobra.Command, opts runsOptions) error {
	ctx := cmd.Context()

	db, err := a.requireDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	page := pagination.PageRequest{
		Page:     opts.page,
		PageSize: opts.pageSize,
		Sort:     query.ParseSortFields(opts.sort),
	}

	result, err := runs.New(db, a.logger, a.cfg.Pagination).List(ctx, page, opts.filters())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tBACKEND\tFILES\tACCURACY\tCREATED")
	for _, r := range result.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f%%\t%s\n",
			r.ID, r.Status, r.Backend, r.TotalFiles, r.OverallAccuracy,
			r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d runs)\n", result.Page, result.TotalPages, result.Total)
	return nil
}
