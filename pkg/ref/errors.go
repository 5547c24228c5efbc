package ref

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/pkg/errcode"
)

// EmptyRefError creates an error for an empty process reference.
func EmptyRefError() error {
	msg := "Process reference cannot be empty"

	return &gn.Error{
		Code: errcode.RefFormatError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("empty process reference"),
	}
}

// FormatError creates an error for a malformed process reference.
func FormatError(raw string) error {
	msg := `Malformed process reference <em>%s</em>

Expected format: <em>CATEGORY.NUMBER/YEAR</em>, e.g. DMD.0090/25`

	vars := []any{raw}

	return &gn.Error{
		Code: errcode.RefFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("malformed process reference: %q", raw),
	}
}
