package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/networth/internal/cli"
	"github.com/Veraticus/networth/internal/engine"
	"github.com/Veraticus/networth/internal/model"
)

func reconcileCmd() *cobra.Command {
	var (
		mode   string
		kind   string
		file   string
		values []string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Push the current balances into the Accounts ledger",
		Long: `Reconcile the liquid-asset accounts against the Accounts ledger.

Values come from a JSON batch file, from --set flags, or both. Accounts
without a value keep their previous target values.`,
		Example: `  # Individual mode, balances only
  networth reconcile --set 3f2a=12000 --set 9c41=5400.25

  # Group mode, contributions only
  networth reconcile --mode group --kind detailed-preserve-balance --file march.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			accounts, err := eng.Sources().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to load accounts: %w", err)
			}

			batch := append([]model.SourceAccount(nil), accounts...)
			if file != "" {
				entries, err := readBatchFile(file)
				if err != nil {
					return err
				}
				if batch, err = mergeEntries(batch, entries); err != nil {
					return err
				}
			}
			if batch, err = applySetFlags(batch, values); err != nil {
				return err
			}

			res, err := eng.Reconcile(ctx, batch, model.UpdateMode(mode), model.UpdateKind(kind))
			if err != nil {
				return fmt.Errorf("reconciliation failed: %w", err)
			}

			printResult(cmd, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(model.ModeIndividual), "Update mode (individual, group)")
	cmd.Flags().StringVar(&kind, "kind", string(model.BalanceOnly), "Update kind (balance-only, detailed, detailed-preserve-balance)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with account values")
	cmd.Flags().StringArrayVar(&values, "set", nil, "Set a balance as ID=AMOUNT (repeatable)")

	return cmd
}

// readBatchFile reads a JSON array of source account entries.
func readBatchFile(path string) ([]model.SourceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	var entries []model.SourceAccount
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}
	return entries, nil
}

// mergeEntries copies values from entries onto the known accounts. Entries
// whose id is unknown are appended as new accounts when they carry an
// owner; otherwise they are rejected.
func mergeEntries(batch, entries []model.SourceAccount) ([]model.SourceAccount, error) {
	for _, e := range entries {
		i := indexByID(batch, e.ID)
		if i < 0 && e.ID != "" {
			if a, err := resolveAccount(batch, e.ID); err == nil {
				i = indexByID(batch, a.ID)
			}
		}
		if i < 0 {
			if strings.TrimSpace(e.Owner) == "" {
				return nil, fmt.Errorf("batch entry %q does not match a known account", e.ID)
			}
			batch = append(batch, e)
			continue
		}
		batch[i].Amount = e.Amount
		batch[i].Details = e.Details
	}
	return batch, nil
}

// applySetFlags applies ID=AMOUNT pairs.
func applySetFlags(batch []model.SourceAccount, values []string) ([]model.SourceAccount, error) {
	for _, v := range values {
		ref, raw, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: expected ID=AMOUNT", v)
		}
		a, err := resolveAccount(batch, ref)
		if err != nil {
			return nil, err
		}
		amount := model.ParseAmount(raw)
		if !amount.IsSet() && strings.TrimSpace(raw) != "" {
			return nil, fmt.Errorf("invalid amount %q for %s", raw, ref)
		}
		batch[indexByID(batch, a.ID)].Amount = amount
	}
	return batch, nil
}

func indexByID(accounts []model.SourceAccount, id string) int {
	for i, a := range accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func printResult(cmd *cobra.Command, res engine.Result) {
	out := cmd.OutOrStdout()
	if !res.Changed {
		fmt.Fprintln(out, cli.FormatInfo("No target accounts changed."))
	}
	switch res.Method {
	case model.ModeGroup:
		fmt.Fprintf(out, "%s Processed %d groups (%d accounts)\n", cli.SuccessIcon, res.GroupsProcessed, res.ProcessedCount)
	default:
		fmt.Fprintf(out, "%s Processed %d accounts\n", cli.SuccessIcon, res.ProcessedCount)
	}
	fmt.Fprintf(out, "  created: %d  updated: %d  snapshot: %s\n", res.Created, res.Updated, shortID(res.SnapshotID))
}
