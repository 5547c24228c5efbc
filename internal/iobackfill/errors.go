package iobackfill

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/pkg/errcode"
)

// ListError creates an error for a failed legacy reference listing.
func ListError(err error) error {
	msg := `Cannot list legacy process references

The legacy database must be reachable for a backfill run.`

	return &gn.Error{
		Code: errcode.BackfillListError,
		Msg:  msg,
		Err:  fmt.Errorf("listing legacy references failed: %w", err),
	}
}

// AllFailedError creates an error for a run where every reference
// failed to resolve.
func AllFailedError(failed int) error {
	msg := `All %d references failed to resolve

Check database connectivity; a fully failing run usually means PRIMARY
is unreachable.`
	vars := []any{failed}

	return &gn.Error{
		Code: errcode.BackfillAllFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("all %d backfill references failed", failed),
	}
}
