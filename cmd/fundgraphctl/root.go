package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/fundgraph-backend/internal/app"
)

type rootOptions struct {
	configPath string
	logMode    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "fundgraphctl",
		Short:         "Operate the fundgraph database from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (defaults to $FUNDGRAPH_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.logMode, "log-mode", "", "override log mode (development, production, test)")

	cmd.AddCommand(newMigrateCmd(opts), newIngestCmd(opts), newSeedCmd(opts))
	return cmd
}

// open loads config and builds the app without serving HTTP.
func (o *rootOptions) open() (*app.App, error) {
	cfg, err := app.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logMode != "" {
		cfg.Log.Mode = o.logMode
	}
	cfg.Metrics.Enabled = false
	return app.New(cfg)
}
