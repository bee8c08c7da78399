package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/networth/internal/cli"
	"github.com/Veraticus/networth/internal/model"
)

func targetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Inspect and rename entries of the Accounts ledger",
	}

	cmd.AddCommand(listTargetsCmd())
	cmd.AddCommand(renameTargetCmd())

	return cmd
}

func listTargetsCmd() *cobra.Command {
	var unused bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List Accounts ledger entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var targets []model.TargetAccount
			if unused {
				targets, err = eng.UnusedTargets(ctx)
			} else {
				targets, err = eng.Targets().List(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to list targets: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(targets) == 0 {
				fmt.Fprintln(out, "No target accounts found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join([]string{
				cli.HeaderStyle.Render("NAME"),
				cli.HeaderStyle.Render("OWNER"),
				cli.HeaderStyle.Render("BALANCE"),
				cli.HeaderStyle.Render("CONTRIBUTIONS"),
				cli.HeaderStyle.Render("UPDATED"),
			}, "\t"))
			for _, t := range targets {
				updated := "-"
				if !t.Provenance.UpdatedAt.IsZero() {
					updated = t.Provenance.UpdatedAt.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					t.AccountName, t.Owner,
					cli.FormatAmount(t.Balance, ""),
					cli.FormatAmount(t.Contributions, ""),
					updated)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&unused, "unused", false, "Only show targets no group writes to")

	return cmd
}

func renameTargetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename an Accounts ledger entry",
		Long: `Rename an Accounts ledger entry. Source accounts previously reconciled
into it keep updating it under the new name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.RenameTarget(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to rename target: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Renamed %q to %q\n", cli.SuccessIcon, args[0], args[1])
			return nil
		},
	}
}
