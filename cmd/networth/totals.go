package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Veraticus/networth/internal/cli"
)

func totalsCmd() *cobra.Command {
	var byOwner bool

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Show running totals per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			agg, err := eng.Aggregates(ctx)
			if err != nil {
				return fmt.Errorf("failed to load totals: %w", err)
			}

			settings, err := eng.SyncSettings(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if settings.RunCount == 0 {
				fmt.Fprintln(out, "No reconciliation has run yet.")
				return nil
			}

			fmt.Fprintln(out, cli.RenderBox("Totals", renderBuckets(agg.Totals)))
			if byOwner {
				owners := make([]string, 0, len(agg.ByOwner))
				for owner := range agg.ByOwner {
					owners = append(owners, owner)
				}
				sort.Strings(owners)
				for _, owner := range owners {
					fmt.Fprintln(out, cli.RenderBox(owner, renderBuckets(agg.ByOwner[owner])))
				}
			}

			fmt.Fprintln(out, cli.MutedStyle.Render(fmt.Sprintf("Last run %s (%s / %s), %d runs total",
				settings.LastRunAt.Local().Format("2006-01-02 15:04"),
				settings.LastMode, settings.LastKind, settings.RunCount)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&byOwner, "by-owner", false, "Also show totals per owner")

	return cmd
}
