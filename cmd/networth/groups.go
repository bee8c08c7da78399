package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/networth/internal/cli"
	"github.com/Veraticus/networth/internal/engine"
	"github.com/Veraticus/networth/internal/groups"
	"github.com/Veraticus/networth/internal/model"
)

func groupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage account groups",
		Long: `Groups combine several source accounts into one Accounts ledger entry.
A source account belongs to at most one group.`,
	}

	cmd.AddCommand(createGroupCmd())
	cmd.AddCommand(listGroupsCmd())
	cmd.AddCommand(groupMemberCmd("add", "Add an account to a group"))
	cmd.AddCommand(groupMemberCmd("remove", "Remove an account from a group"))
	cmd.AddCommand(updateGroupCmd())
	cmd.AddCommand(deleteGroupCmd())

	return cmd
}

func createGroupCmd() *cobra.Command {
	var target, owner string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a group",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			g, err := eng.CreateGroup(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to create group: %w", err)
			}

			var patch model.GroupPatch
			if cmd.Flags().Changed("target") {
				patch.TargetAccountName = &target
			}
			if cmd.Flags().Changed("owner") {
				patch.OwnerOverride = &owner
			}
			if patch.TargetAccountName != nil || patch.OwnerOverride != nil {
				if err := eng.UpdateGroup(ctx, g.ID, patch); err != nil {
					return fmt.Errorf("failed to configure group: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Created group %q (%s)\n", cli.SuccessIcon, g.Name, g.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Accounts ledger entry the group writes to (defaults to the group name)")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner recorded on a newly created target")

	return cmd
}

func listGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups with their members",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return printGroups(cmd, eng)
		},
	}
}

func printGroups(cmd *cobra.Command, eng *engine.Engine) error {
	ctx := cmd.Context()
	all, err := eng.Groups().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}
	accounts, err := eng.Sources().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(all) == 0 {
		fmt.Fprintln(out, "No groups found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join([]string{
		cli.HeaderStyle.Render("ID"),
		cli.HeaderStyle.Render("NAME"),
		cli.HeaderStyle.Render("TARGET"),
		cli.HeaderStyle.Render("MEMBERS"),
	}, "\t"))
	for _, g := range all {
		var names []string
		for _, m := range groups.Members(g, accounts) {
			names = append(names, eng.Namer().For(m))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(g.ID), g.Name, g.TargetName(), strings.Join(names, "; "))
	}
	return w.Flush()
}

func groupMemberCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <group> <account-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			all, err := eng.Groups().List(ctx)
			if err != nil {
				return err
			}
			g, err := resolveGroup(all, args[0])
			if err != nil {
				return err
			}
			accounts, err := eng.Sources().List(ctx)
			if err != nil {
				return err
			}
			account, err := resolveAccount(accounts, args[1])
			if err != nil {
				return err
			}

			if action == "add" {
				if err := checkUngrouped(cmd, eng, g, account); err != nil {
					return err
				}
				err = eng.AddMember(ctx, g.ID, account.ID)
			} else {
				err = eng.RemoveMember(ctx, g.ID, account.ID)
			}
			if err != nil {
				return fmt.Errorf("failed to %s member: %w", action, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", cli.SuccessIcon, g.Name, eng.Namer().For(account))
			return nil
		},
	}
}

func updateGroupCmd() *cobra.Command {
	var name, target, owner string

	cmd := &cobra.Command{
		Use:   "update <group>",
		Short: "Rename a group or change its target and owner override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.GroupPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("target") {
				patch.TargetAccountName = &target
			}
			if cmd.Flags().Changed("owner") {
				patch.OwnerOverride = &owner
			}
			if patch.Name == nil && patch.TargetAccountName == nil && patch.OwnerOverride == nil {
				return fmt.Errorf("nothing to update: pass --name, --target or --owner")
			}

			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			all, err := eng.Groups().List(ctx)
			if err != nil {
				return err
			}
			g, err := resolveGroup(all, args[0])
			if err != nil {
				return err
			}
			if err := eng.UpdateGroup(ctx, g.ID, patch); err != nil {
				return fmt.Errorf("failed to update group: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated group %s\n", cli.SuccessIcon, shortID(g.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New group name")
	cmd.Flags().StringVar(&target, "target", "", "Accounts ledger entry the group writes to")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner override (empty clears it)")

	return cmd
}

func deleteGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <group>",
		Short: "Delete a group; its members become ungrouped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			all, err := eng.Groups().List(ctx)
			if err != nil {
				return err
			}
			g, err := resolveGroup(all, args[0])
			if err != nil {
				return err
			}
			if err := eng.DeleteGroup(ctx, g.ID); err != nil {
				return fmt.Errorf("failed to delete group: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted group %q\n", cli.SuccessIcon, g.Name)
			return nil
		},
	}
}

// checkUngrouped refuses to put an account in a second group.
func checkUngrouped(cmd *cobra.Command, eng *engine.Engine, g model.Group, account model.SourceAccount) error {
	current, found, err := eng.Groups().GroupOf(cmd.Context(), account.ID)
	if err != nil {
		return err
	}
	if found && current.ID != g.ID {
		return fmt.Errorf("%s already belongs to group %q", account.ID, current.Name)
	}
	return nil
}
