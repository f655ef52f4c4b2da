package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/sorrel/pkg/database"
)

func migrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the registry schema migrations",
		Long: `Apply the registry schema migrations to the database selected by
REGISTRY_SOURCE (postgres or sqlite). DB_MIGRATION_VERSION pins a version,
DB_MIGRATION_FORCE forces one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*envFile)
			if err != nil {
				return err
			}
			if !a.usesDatabase() {
				return fmt.Errorf("REGISTRY_SOURCE %q has no database to migrate", a.cfg.RegistrySource)
			}

			db, err := database.Connect(cmd.Context(), a.databaseConfig(), a.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.NewMigrationService(a.logger, a.migrationConfig()).MigrateDB(db); err != nil {
				return err
			}

			color.Green("Registry schema is up to date")
			return nil
		},
	}
}
