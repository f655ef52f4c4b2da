package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	registryrepo "github.com/Ramsey-B/sorrel/internal/repositories/registry"
	"github.com/Ramsey-B/sorrel/pkg/database"
	"github.com/Ramsey-B/sorrel/pkg/redis"
	"github.com/Ramsey-B/sorrel/pkg/registry"
)

func importRegistryCmd(envFile *string) *cobra.Command {
	var (
		replace bool
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "import-registry <registry.yaml>",
		Short: "Load a registry file into the registry database",
		Long: `Load persons, places, organizations and roles from a YAML or JSON
registry file into the database selected by REGISTRY_SOURCE. Entries are
upserted by id; --replace removes entries missing from the file. The Redis
registry cache is cleared afterwards when enabled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*envFile)
			if err != nil {
				return err
			}
			if !a.usesDatabase() {
				return fmt.Errorf("REGISTRY_SOURCE %q has no database to import into", a.cfg.RegistrySource)
			}

			ctx := cmd.Context()
			data, err := registry.FileSource{Path: args[0]}.Load(ctx)
			if err != nil {
				return err
			}

			db, err := database.Connect(ctx, a.databaseConfig(), a.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if migrate {
				if err := database.NewMigrationService(a.logger, a.migrationConfig()).MigrateDB(db); err != nil {
					return err
				}
			}

			repo := registryrepo.NewRepository(db, a.logger)
			if replace {
				err = repo.Replace(ctx, data)
			} else {
				err = repo.Save(ctx, data)
			}
			if err != nil {
				return err
			}

			if a.cfg.RedisEnabled && a.cfg.RegistryCacheUsed {
				client, err := redis.NewClient(ctx, a.redisConfig(), a.logger)
				if err != nil {
					return err
				}
				defer client.Close()
				if err := client.Del(ctx, a.cfg.RegistryCacheKey); err != nil {
					return fmt.Errorf("failed to clear registry cache: %w", err)
				}
			}

			snapshot := registry.NewSnapshot(*data)
			color.Green("Imported registry %s", snapshot.Version())
			for name, count := range snapshot.Counts() {
				fmt.Printf("  %-14s %d\n", name, count)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "remove stored entries that are not in the file")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply schema migrations first")
	return cmd
}
