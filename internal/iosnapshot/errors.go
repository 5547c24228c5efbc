package iosnapshot

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/pkg/errcode"
)

// QueryError creates an error for a failed snapshot query on the
// process row itself. Sub-entity failures never reach this; they
// degrade.
func QueryError(table, reference string, err error) error {
	msg := `Cannot read <em>%s</em> for process <em>%s</em>`
	vars := []any{table, reference}

	return &gn.Error{
		Code: errcode.SnapshotQueryError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("snapshot query on %s for %s failed: %w",
			table, reference, err),
	}
}
