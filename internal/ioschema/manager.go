// Package ioschema implements the SchemaManager contract for the
// PRIMARY database. This is an impure I/O package that wraps GORM
// AutoMigrate and then applies the natural-key indexes GORM tags
// cannot express.
package ioschema

import (
	"context"

	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/helenomaffra/maikedb/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// manager implements the maike.SchemaManager interface using GORM
// AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) maike.SchemaManager {
	return &manager{operator: op}
}

// Create creates the PRIMARY schema using GORM AutoMigrate, then
// applies the partial and expression unique indexes that enforce
// natural-key idempotency for the heal writes.
func (m *manager) Create(ctx context.Context) error {
	gormDB, err := m.open()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	return m.applyIndexes(ctx)
}

// Migrate updates the schema to the latest version using GORM
// AutoMigrate. Index application is repeated; every statement is
// idempotent.
func (m *manager) Migrate(ctx context.Context) error {
	gormDB, err := m.open()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB); err != nil {
		return MigrateSchemaError(err)
	}

	return m.applyIndexes(ctx)
}

func (m *manager) open() (*gorm.DB, error) {
	pool := m.operator.Pool(db.Primary)
	if pool == nil {
		return nil, NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return gormDB, nil
}

// applyIndexes runs the DDL statements from pkg/schema against the
// PRIMARY pool.
func (m *manager) applyIndexes(ctx context.Context) error {
	pool := m.operator.Pool(db.Primary)
	if pool == nil {
		return NotConnectedError()
	}

	statements := make([]string, 0,
		len(schema.NaturalKeyIndexes)+len(schema.SupportIndexes))
	statements = append(statements, schema.NaturalKeyIndexes...)
	statements = append(statements, schema.SupportIndexes...)

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return CreateSchemaError(err)
		}
	}
	return nil
}
