package main

import (
	"context"
	"fmt"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/internal/iodb"
	"github.com/helenomaffra/maikedb/internal/ioschema"
	"github.com/spf13/cobra"
)

func getMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Update the PRIMARY database schema",
		Long: `Update the PRIMARY schema to the latest version.

Runs GORM AutoMigrate on all models and re-applies the natural-key
indexes. Non-destructive: existing data is preserved; only missing
tables, columns and indexes are added.

Examples:
  maikedb migrate
  maikedb migrate --config custom.yaml`,
		RunE: runMigrate,
	}

	return cmd
}

func runMigrate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg := getConfig()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to primary database: <em>%s@%s:%d/%s</em>",
		cfg.Primary.User, cfg.Primary.Host,
		cfg.Primary.Port, cfg.Primary.Database)

	sm := ioschema.NewManager(op)

	fmt.Println("Migrating schema using GORM AutoMigrate...")
	if err := sm.Migrate(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Primary schema migration is complete!")
	return nil
}
