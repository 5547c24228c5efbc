package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/pkg/errcode"
)

// NotConnectedError creates an error for when a schema operation is
// attempted without a PRIMARY connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without a primary database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to primary database"),
	}
}

// GORMConnectionError creates an error for GORM connection failures.
func GORMConnectionError(err error) error {
	msg := `Cannot connect to the primary database with GORM

<em>Possible causes:</em>
  - Connection pool not initialized
  - Database configuration issue

<em>How to fix:</em>
  1. Check the primary section of maikedb.yaml
  2. Verify the database accepts connections`

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("GORM connection failed: %w", err),
	}
}

// CreateSchemaError creates an error for schema creation failures.
func CreateSchemaError(err error) error {
	msg := `Cannot create the primary schema

<em>Possible causes:</em>
  - Insufficient database privileges
  - Conflicting tables from a manual setup

<em>How to fix:</em>
  1. Ensure the configured user owns the database
  2. Drop conflicting tables or use a fresh database`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("schema creation failed: %w", err),
	}
}

// MigrateSchemaError creates an error for schema migration failures.
func MigrateSchemaError(err error) error {
	msg := `Cannot migrate the primary schema

Existing data may conflict with the new column definitions. Inspect
the wrapped cause for the failing statement.`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("schema migration failed: %w", err),
	}
}
