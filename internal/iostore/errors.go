package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/errcode"
)

// SourceUnavailableError creates an error for a store that cannot be
// reached. The resolver absorbs it and continues with the next source.
func SourceUnavailableError(id db.DatabaseID, err error) error {
	msg := `Database <em>%s</em> is unavailable`
	vars := []any{id}

	return &gn.Error{
		Code: errcode.ResolveSourceError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("source %s unavailable: %w", id, err),
	}
}

// QueryError creates an error for a failed query against one store.
func QueryError(id db.DatabaseID, context string, err error) error {
	msg := `Query against <em>%s</em> failed (%s)`
	vars := []any{id, context}

	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("query failed on %s (%s): %w", id, context, err),
	}
}
