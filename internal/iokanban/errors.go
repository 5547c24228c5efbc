package iokanban

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/pkg/errcode"
)

// UnreachableError creates an error for when no candidate endpoint
// answered.
func UnreachableError(candidates []string, err error) error {
	msg := `Pipeline tool unreachable

<em>Tried endpoints:</em>
%s

<em>Possible causes:</em>
  - You are outside the office network and off-VPN
  - The pipeline tool is down`

	var lines []string
	for _, c := range candidates {
		lines = append(lines, "  - "+c)
	}
	vars := []any{strings.Join(lines, "\n")}

	if err == nil {
		err = fmt.Errorf("no endpoints configured")
	}

	return &gn.Error{
		Code: errcode.KanbanUnreachableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("pipeline tool unreachable: %w", err),
	}
}

// DecodeError creates an error for an undecodable response body.
func DecodeError(endpoint string, err error) error {
	msg := `Pipeline tool returned an unreadable response from <em>%s</em>`
	vars := []any{endpoint}

	return &gn.Error{
		Code: errcode.KanbanDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot decode pipeline response from %s: %w", endpoint, err),
	}
}
