package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()
			// app.New already migrated; report what it connected to.
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", a.DB.Driver())
			return nil
		},
	}
}
