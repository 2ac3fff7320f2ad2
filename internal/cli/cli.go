// Package cli wires the heimr subcommands: schema migration, ingestion
// runs, search index maintenance, and destructive cleanups.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artifex-data/heimr/internal/config"
)

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "heimr",
		Short:         "Property data ingestion toolkit",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "heimr.yaml", "path to YAML config file")

	root.AddCommand(
		newMigrateCmd(&cfgPath),
		newIngestCmd(&cfgPath),
		newSearchIndexCmd(&cfgPath),
		newSearchCmd(&cfgPath),
		newPurgePropertyCmd(&cfgPath),
	)
	return root
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
