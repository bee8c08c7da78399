package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/networth/internal/cli"
	"github.com/Veraticus/networth/internal/config"
	"github.com/Veraticus/networth/internal/docstore"
)

func migrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Bring the SQLite schema up to date. Other store drivers have no schema.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			settings, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if settings.Store.Driver != config.DriverSQLite {
				fmt.Fprintf(out, "The %s store has no schema to migrate.\n", settings.Store.Driver)
				return nil
			}

			store, err := docstore.NewSQLiteStore(settings.Store.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if status {
				version, err := store.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Schema version %d of %d (%s)\n", version, docstore.ExpectedSchemaVersion, store.Path())
				return nil
			}

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Schema at version %d", docstore.ExpectedSchemaVersion)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "Show the current schema version")

	return cmd
}
