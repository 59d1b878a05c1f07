package main

import (
	"fmt"

	"github.com/JaimeStill/pest-lab/internal/classifiers"
	"github.com/JaimeStill/pest-lab/internal/dataset"
	"github.com/JaimeStill/pest-lab/internal/infrastructure"
	"github.com/JaimeStill/pest-lab/internal/pipeline"
	"github.com/JaimeStill/pest-lab/internal/reports"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate the dataset and write reports",
		Args:  cobra.NoArgs,
		RunE:  a.run,
	}

	cmd.Flags().StringVar(&a.root, "root", "", "Dataset root (overrides dataset.root)")
	cmd.Flags().StringVar(&a.backend, "backend", "", "Classifier backend: clip or vision")
	cmd.Flags().StringVar(&a.endpoint, "endpoint", "", "CLIP inference endpoint")

	return cmd
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	infra, err := infrastructure.New(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer infra.Close()
	store := infra.Storage

	classifier, err := classifiers.New(&a.cfg.Classifier, a.logger)
	if err != nil {
		return fmt.Errorf("classifier: %w", err)
	}

	var pages *dataset.PageRenderer
	if a.cfg.Dataset.RenderPDFs {
		pages, err = dataset.NewPageRenderer(&a.cfg.Dataset, store, a.logger)
		if err != nil {
			return fmt.Errorf("page renderer: %w", err)
		}
	}

	p, err := pipeline.New(pipeline.Deps{
		Catalog:      &a.cfg.Catalog,
		Dataset:      &a.cfg.Dataset,
		Classifier:   classifier,
		Backend:      string(a.cfg.Classifier.Backend),
		MaxImageSize: a.cfg.Storage.MaxImageSizeBytes(),
		Pages:        pages,
		Reports:      reports.NewWriter(&a.cfg.Reports, store, a.logger),
		DB:           infra.DB,
		Pagination:   a.cfg.Pagination,
		Logger:       a.logger,
	})
	if err != nil {
		return err
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reports.Print(out, res.Summary)

	fmt.Fprintf(out, "\nrun %s\n", res.RunID)
	for _, key := range res.Reports {
		path, err := store.Path(ctx, key)
		if err != nil {
			path = key
		}
		fmt.Fprintf(out, "  %s\n", path)
	}
	return nil
}
