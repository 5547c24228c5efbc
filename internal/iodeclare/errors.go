package iodeclare

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/pkg/errcode"
)

// APIError creates an error for a failed declaration API call.
func APIError(url string, err error) error {
	msg := `Declaration API call failed

<em>URL:</em> %s

The government service may be down or rate-limiting. Try again in a
few minutes.`
	vars := []any{url}

	return &gn.Error{
		Code: errcode.DeclarationAPIError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("declaration API call to %s failed: %w", url, err),
	}
}
