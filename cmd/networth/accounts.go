package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/networth/internal/cli"
	"github.com/Veraticus/networth/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage liquid-asset account definitions",
		Long: `Add, list and remove the liquid-asset accounts whose balances you record.

Only the account identity is stored. Balances are supplied per run with
'networth reconcile'.`,
	}

	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(removeAccountCmd())

	return cmd
}

func addAccountCmd() *cobra.Command {
	var account model.SourceAccount
	var taxType, accountType string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		Example: `  networth accounts add --owner Alice --tax Tax-Free --type IRA --institution Vanguard
  networth accounts add --owner Joint --tax After-Tax --type Brokerage --institution Fidelity --description Kids`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(account.Owner) == "" {
				return fmt.Errorf("--owner is required")
			}
			account.TaxType = model.TaxType(taxType)
			account.AccountType = model.AccountType(accountType)

			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			added, err := eng.AddSourceAccount(cmd.Context(), account)
			if err != nil {
				return fmt.Errorf("failed to add account: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s (%s)\n",
				cli.SuccessIcon, eng.Namer().For(added), added.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&account.ID, "id", "", "Account id (generated if not provided)")
	cmd.Flags().StringVar(&account.Owner, "owner", "", "Account owner, or Joint")
	cmd.Flags().StringVar(&taxType, "tax", string(model.AfterTax), "Tax type (Tax-Free, Tax-Deferred, After-Tax, Cash)")
	cmd.Flags().StringVar(&accountType, "type", string(model.AccountBrokerage), "Account type (IRA, Brokerage, 401k, ESPP, HSA, Cash)")
	cmd.Flags().StringVar(&account.Institution, "institution", "", "Institution name")
	cmd.Flags().StringVar(&account.Description, "description", "", "Disambiguating description")

	return cmd
}

func listAccountsCmd() *cobra.Command {
	var ungrouped bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var accounts []model.SourceAccount
			if ungrouped {
				accounts, err = eng.UngroupedAccounts(ctx)
			} else {
				accounts, err = eng.Sources().List(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(accounts) == 0 {
				fmt.Fprintln(out, "No accounts found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join([]string{
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("NAME"),
				cli.HeaderStyle.Render("TAX"),
				cli.HeaderStyle.Render("TYPE"),
			}, "\t"))
			for _, a := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, eng.Namer().For(a), a.TaxType, a.AccountType)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&ungrouped, "ungrouped", false, "Only show accounts that belong to no group")

	return cmd
}

func removeAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <account-id>",
		Short: "Remove an account and drop it from its groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			accounts, err := eng.Sources().List(ctx)
			if err != nil {
				return err
			}
			account, err := resolveAccount(accounts, args[0])
			if err != nil {
				return err
			}
			if err := eng.RemoveSourceAccount(ctx, account.ID); err != nil {
				return fmt.Errorf("failed to remove account: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n", cli.SuccessIcon, eng.Namer().For(account))
			return nil
		},
	}
}
