package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "sorrel",
		Short: "Entity resolution and enrichment for annotated correspondence",
		Long: `Sorrel resolves the persons, places, organizations, roles, dates and
events of annotated letter transcripts against curated registries and
produces a validated document record.

It runs as an HTTP service, as a Kafka worker or over local files.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional .env file read before the environment")

	rootCmd.AddCommand(serveCmd(&envFile))
	rootCmd.AddCommand(workerCmd(&envFile))
	rootCmd.AddCommand(enrichCmd(&envFile))
	rootCmd.AddCommand(migrateCmd(&envFile))
	rootCmd.AddCommand(importRegistryCmd(&envFile))
	rootCmd.AddCommand(reviewCmd(&envFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}
