package main

import (
	"fmt"

	"github.com/helenomaffra/maikedb/internal/ioconfig"
	"github.com/helenomaffra/maikedb/internal/iologger"
	pkgconfig "github.com/helenomaffra/maikedb/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *pkgconfig.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "maikedb",
		Short: "maikedb manages the mAIke process data layer",
		Long: `maikedb is a CLI tool for the mAIke customs-brokerage back office.
It resolves import processes across the local cache, the PRIMARY and
LEGACY PostgreSQL stores and the operational pipeline tool, and heals
PRIMARY gaps with idempotent natural-key writes.

Main operations:
  - resolve:  find the most complete record for a process reference
  - snapshot: read-only aggregation of everything PRIMARY holds
  - heal:     run the backfill writes for one process
  - backfill: bulk-migrate legacy processes into PRIMARY
  - classify: link expense lines to a bank transaction
  - create:   create the PRIMARY schema
  - migrate:  update the PRIMARY schema

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (MAIKEDB_*)
  3. Config file (maikedb.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (primary.host → MAIKEDB_PRIMARY_HOST).

  Examples:
    MAIKEDB_PRIMARY_HOST       PRIMARY PostgreSQL host
    MAIKEDB_PRIMARY_DATABASE   PRIMARY database name
    MAIKEDB_LEGACY_FALLBACK    permit the legacy fallback (true/false)
    MAIKEDB_LOG_LEVEL          log level (debug/info/warn/error)

  See 'go doc github.com/helenomaffra/maikedb/pkg/config' for the
  complete list.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-generate config file on first run
			if cfgFile == "" {
				exists, err := ioconfig.ConfigFileExists()
				if err != nil {
					return fmt.Errorf("failed to check config file: %w", err)
				}
				if !exists {
					generatedPath, err := ioconfig.GenerateDefaultConfig()
					if err != nil {
						// warn only, defaults still work
						fmt.Printf("Warning: could not generate config file: %v\n", err)
					} else {
						fmt.Printf("Generated default config at: %s\n", generatedPath)
					}
				}
			}

			result, err := ioconfig.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = result.Config

			switch result.Source {
			case "file":
				fmt.Printf("Using config from: %s\n", result.SourcePath)
			case "defaults+env":
				fmt.Println("Using built-in defaults with environment variable overrides")
			case "defaults":
				fmt.Println("Using built-in defaults (no config file)")
			}

			logDir := pkgconfig.LogDir(cfg.HomeDir)
			return iologger.Init(logDir, cfg.Log, true)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/maikedb/maikedb.yaml)")

	rootCmd.Flags().BoolP("version", "V", false, "version for maikedb")

	rootCmd.AddCommand(getResolveCmd())
	rootCmd.AddCommand(getSnapshotCmd())
	rootCmd.AddCommand(getHealCmd())
	rootCmd.AddCommand(getBackfillCmd())
	rootCmd.AddCommand(getClassifyCmd())
	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getMigrateCmd())

	return rootCmd
}

// getConfig returns the loaded configuration for subcommands.
func getConfig() *pkgconfig.Config {
	return cfg
}
