package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/networth/internal/cli"
	"github.com/Veraticus/networth/internal/model"
)

func snapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Inspect reconciliation history",
	}

	cmd.AddCommand(listSnapshotsCmd())
	cmd.AddCommand(showSnapshotCmd())
	cmd.AddCommand(deleteSnapshotCmd())

	return cmd
}

func listSnapshotsCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := eng.Records().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list snapshots: %w", err)
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join([]string{
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("TIME"),
				cli.HeaderStyle.Render("MODE"),
				cli.HeaderStyle.Render("KIND"),
				cli.HeaderStyle.Render("ACCOUNTS"),
				cli.HeaderStyle.Render("TOTAL"),
			}, "\t"))
			shown := 0
			for _, r := range records {
				if period != "" && r.Period != period {
					continue
				}
				shown++
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					shortID(r.ID), r.Timestamp.Local().Format("2006-01-02 15:04"),
					r.Mode, r.UpdateKind, len(r.Accounts),
					cli.FormatDecimal(r.Totals.Total(), ""))
			}
			if shown == 0 {
				fmt.Fprintln(out, "No snapshots found.")
				return nil
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "Only show snapshots for a period (YYYY-MM)")

	return cmd
}

func showSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <snapshot-id>",
		Short: "Show the accounts and totals recorded by a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			r, err := eng.Records().Get(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Snapshot %s", shortID(r.ID))))
			fmt.Fprintf(out, "%s  %s / %s\n\n", r.Timestamp.Local().Format("2006-01-02 15:04:05"), r.Mode, r.UpdateKind)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, a := range r.Accounts {
				fmt.Fprintf(w, "%s\t%s\n", a.Name, cli.FormatAmount(a.Amount, ""))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprint(out, renderBuckets(r.Totals))
			return nil
		},
	}
}

func deleteSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <snapshot-id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			r, err := eng.Records().Get(ctx, args[0])
			if err != nil {
				return err
			}
			if err := eng.Records().DeleteByID(ctx, r.ID); err != nil {
				return fmt.Errorf("failed to delete snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted snapshot %s\n", cli.SuccessIcon, shortID(r.ID))
			return nil
		},
	}
}

// renderBuckets renders one line per non-empty bucket plus the total.
func renderBuckets(bs model.Buckets) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	for _, b := range model.AllBuckets {
		v, ok := bs[b]
		if !ok || v.IsZero() {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", cli.BucketLabel(b), cli.FormatSigned(v))
	}
	fmt.Fprintf(w, "%s\t%s\n", "Total", cli.FormatSigned(bs.Total()))
	_ = w.Flush()
	return sb.String()
}
