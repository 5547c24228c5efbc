package ioheal

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/errcode"
	"github.com/jackc/pgx/v5"
)

// SourceReadError creates an error for a failed read from a heal
// source.
func SourceReadError(source string, err error) error {
	msg := `Cannot read heal source <em>%s</em>`
	vars := []any{source}

	return &gn.Error{
		Code: errcode.HealSourceReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("heal source %s read failed: %w", source, err),
	}
}

// UpsertError creates an error for a failed write into a PRIMARY
// table.
func UpsertError(table, key string, err error) error {
	msg := `Cannot write <em>%s</em> for <em>%s</em>`
	vars := []any{table, key}

	return &gn.Error{
		Code: errcode.HealUpsertError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("upsert into %s for %s failed: %w",
			table, key, err),
	}
}

// PartialWriteError creates an error for a heal where some rows
// failed. Each row writes independently, so the successful rows stay
// in place; re-running the heal converges on the same natural keys.
func PartialWriteError(reference string, written int, err error) error {
	msg := `Heal for <em>%s</em> wrote %d rows; some rows failed

Written rows stay in place. Re-run the heal; rows are keyed naturally
and will not duplicate.`
	vars := []any{reference, written}

	return &gn.Error{
		Code: errcode.HealPartialWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("heal for %s wrote %d rows with failures: %w",
			reference, written, err),
	}
}

func errNotConnected(id db.DatabaseID) error {
	return fmt.Errorf("database %s is not connected", id)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
