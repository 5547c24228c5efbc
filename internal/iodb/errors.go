package iodb

import (
	"fmt"

	"github.com/gnames/gnlib"
	"github.com/helenomaffra/maikedb/pkg/db"
)

// connectionError is returned when a required database connection
// fails.
type connectionError struct {
	error
	gnlib.MessageBase
}

// ConnectionError creates a connection error with user-friendly
// message.
func ConnectionError(
	id db.DatabaseID,
	host string,
	port int,
	database string,
	cause error,
) error {
	userBase := gnlib.NewMessage(
		`<title>Database Connection Failed</title>

<warning>Could not connect to the %s PostgreSQL database.</warning>

<em>Possible causes:</em>
  • PostgreSQL is not running
  • Database configuration is incorrect
  • You are outside the office network / off-VPN

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>

  2. Check your configuration file:
     <em>~/.config/maikedb/maikedb.yaml</em>

  3. Review connection settings:
     Host: %s
     Port: %d
     Database: %s
`,
		[]any{
			id,
			host, port,
			host, port, database,
		},
	)

	return connectionError{
		error: fmt.Errorf("failed to connect to %s (%s:%d/%s): %w",
			id, host, port, database, cause),
		MessageBase: userBase,
	}
}

// notConnectedError is returned when an operation is attempted against
// a database that has no pool.
type notConnectedError struct {
	error
	gnlib.MessageBase
}

// NotConnectedError creates an error for an operation against a
// database without an established connection.
func NotConnectedError(id db.DatabaseID) error {
	userBase := gnlib.NewMessage(
		`<title>Database Not Connected</title>

<warning>The %s database is not connected.</warning>

If this is an optional source (legacy, declarations) the resolver
treats it as unavailable and continues with the remaining sources.
`,
		[]any{id},
	)

	return notConnectedError{
		error:       fmt.Errorf("not connected to %s database", id),
		MessageBase: userBase,
	}
}

// tableCheckError is returned when checking for a table fails.
type tableCheckError struct {
	error
	gnlib.MessageBase
}

// TableCheckError creates an error for a failed table-existence check.
func TableCheckError(id db.DatabaseID, table string, cause error) error {
	userBase := gnlib.NewMessage(
		`<title>Database Check Failed</title>

<warning>Could not verify table <em>%s</em> in the %s database.</warning>
`,
		[]any{table, id},
	)

	return tableCheckError{
		error: fmt.Errorf("failed to check table %q in %s: %w",
			table, id, cause),
		MessageBase: userBase,
	}
}
