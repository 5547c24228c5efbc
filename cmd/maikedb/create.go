package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/internal/iodb"
	"github.com/helenomaffra/maikedb/internal/ioschema"
	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/schema"
	"github.com/spf13/cobra"
)

var (
	forceCreate bool
)

func getCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the PRIMARY database schema",
		Long: `Create the PRIMARY schema from scratch.

This command:
  1. Connects to the PRIMARY database using configuration settings
  2. Checks for existing tables and prompts for confirmation if found
  3. Creates all tables using GORM AutoMigrate
  4. Applies the natural-key unique indexes the heal writes rely on

Only PRIMARY is touched; the LEGACY and declarations databases are
never written to.

Use --force to skip confirmation and drop existing tables automatically.

Examples:
  maikedb create
  maikedb create --force
  maikedb create --config custom.yaml`,
		RunE: runCreate,
	}

	cmd.Flags().BoolVar(&forceCreate, "force", false,
		"drop existing tables before creating schema (destructive)")

	return cmd
}

func runCreate(_ *cobra.Command, _ []string) error {
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

	hasTables, err := op.TableExists(ctx, db.Primary, "import_processes")
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if hasTables {
		if !forceCreate && !confirmDrop() {
			fmt.Println("Aborted. No changes made to the database.")
			return nil
		}
		fmt.Println("Dropping all existing tables...")
		if err := dropAllTables(ctx, op); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		fmt.Println("✓ All tables dropped")
	}

	sm := ioschema.NewManager(op)

	fmt.Println("Creating schema using GORM AutoMigrate...")
	if err := sm.Create(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(`Primary schema creation is complete!

Next steps:
  - Run 'maikedb backfill' to migrate legacy processes
  - Run 'maikedb resolve REF' to resolve and heal single processes`)

	return nil
}

func confirmDrop() bool {
	fmt.Println("\n⚠️  Warning: Database contains existing tables.")
	fmt.Println("Creating schema will drop ALL existing tables and data.")
	fmt.Print("\nDo you want to continue? (yes/no): ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y"
}

// dropAllTables drops the PRIMARY tables in reverse dependency order.
func dropAllTables(ctx context.Context, op db.Operator) error {
	pool := op.Pool(db.Primary)
	if pool == nil {
		return fmt.Errorf("primary database is not connected")
	}

	tables := []string{
		schema.ChangeEvent{}.TableName(),
		schema.LinkedExpense{}.TableName(),
		schema.ImportTax{}.TableName(),
		schema.DeclaredValue{}.TableName(),
		schema.CustomsDocument{}.TableName(),
		schema.ImportProcess{}.TableName(),
	}
	for _, table := range tables {
		stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
