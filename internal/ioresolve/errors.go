package ioresolve

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/pkg/errcode"
)

// NotFoundError creates an error for a reference no source knows.
func NotFoundError(reference string, tried []string) error {
	msg := `Process <em>%s</em> was not found in any source

<em>Sources tried:</em> %s

Check the reference for typos; the category code and year must match
an existing process.`
	vars := []any{reference, strings.Join(tried, ", ")}

	return &gn.Error{
		Code: errcode.ResolveNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("process %s not found after trying %s",
			reference, strings.Join(tried, ", ")),
	}
}
