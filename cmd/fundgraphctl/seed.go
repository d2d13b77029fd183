package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/fundgraph-backend/internal/data/seed"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo deals through the ingestion pipeline (safe to repeat)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()
			summary, err := a.Services.Ingestion.Ingest(cmd.Context(), seed.Deals())
			if summary != nil {
				if perr := printSummary(cmd.OutOrStdout(), summary); perr != nil {
					return perr
				}
			}
			return err
		},
	}
}
