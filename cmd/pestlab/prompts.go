package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPromptsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "Print the prompt catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.cfg.Catalog.Build()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d prompts\n", catalog.Len())
			for i, p := range catalog.Prompts() {
				fmt.Fprintf(out, "%3d  %s\n", i+1, p)
			}
			return nil
		},
	}
}
