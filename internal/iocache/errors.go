package iocache

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/pkg/errcode"
)

// OpenError creates an error for when the cache database cannot be
// opened or initialized.
func OpenError(path string, err error) error {
	msg := `Cannot open process cache

<em>Cache file:</em> %s

<em>How to fix:</em>
  1. Check the directory is writable
  2. Remove the file if it is corrupted; it will be recreated`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.CacheOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to open cache at %s: %w", path, err),
	}
}

// WriteError creates an error for a failed cache write.
func WriteError(key string, err error) error {
	msg := `Cache write failed for <em>%s</em>`
	vars := []any{key}

	return &gn.Error{
		Code: errcode.CacheWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cache write failed for %q: %w", key, err),
	}
}
