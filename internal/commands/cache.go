package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/reconcile/internal/database"
	"github.com/jask/reconcile/internal/database/repository"
	"github.com/jask/reconcile/internal/service"
)

func addCache(topLevel *cobra.Command, opts *options) {
	cache := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the remembered payee destinations.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget every remembered payee destination.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			db, err := database.OpenAndMigrate(cfg.Paths.Cache)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := (&service.MaintenanceService{DB: db}).Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "hint cache cleared")
			return nil
		},
	}

	var payee string
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show how many payees and destinations are remembered.",
		Long:  "Show how many payees and destinations are remembered. With --payee, list that payee's destinations, most used first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			db, err := database.OpenAndMigrate(cfg.Paths.Cache)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			repo := repository.NewDestinationRepo(db)
			if payee != "" {
				rels, err := repo.Relations(ctx, payee)
				if err != nil {
					return err
				}
				if len(rels) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "no destinations remembered for %q\n", payee)
					return nil
				}
				for _, r := range rels {
					fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s  (last used %s)\n", r.Tally, r.Destination, r.UpdatedAt.Format("2006-01-02"))
				}
				return nil
			}
			payees, err := repo.Payees(ctx)
			if err != nil {
				return err
			}
			dests, err := repo.Destinations(ctx)
			if err != nil {
				return err
			}
			n, err := repo.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d payees, %d destinations, %d pairings\n", len(payees), len(dests), n)
			return nil
		},
	}

	stats.Flags().StringVar(&payee, "payee", "", "list the destinations remembered for one payee")

	cache.AddCommand(reset, stats)
	topLevel.AddCommand(cache)
}
