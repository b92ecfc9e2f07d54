// Package commands builds the reconcile command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/jask/reconcile/internal/config"
)

type options struct {
	configPath string
	output     string
}

func (o *options) load() (config.Config, error) {
	return config.Load(o.configPath)
}

func New() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "reconcile [statement.csv ...]",
		Short: "Walk bank statements in date order and write ledger journal entries.",
		Long: `Loads each statement CSV with the [[accounts]] descriptor whose identifier
appears in it, shows them side by side, and asks for a destination account per
transaction in date order across all of them. The journal is written on exit.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd.Context(), opts, args, cmd.OutOrStdout())
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "journal destination, - for stdout (overrides paths.output)")

	AddCommands(cmd, opts)
	return cmd
}

func AddCommands(topLevel *cobra.Command, opts *options) {
	addCache(topLevel, opts)
}
