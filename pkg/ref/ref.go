// Package ref parses and normalizes import-process references.
//
// A process reference has the form CATEGORY.NUMBER/YEAR, for example
// "DMD.0090/25" or "BND.0114/24". CATEGORY is a 2-4 letter code for the
// business unit or client, NUMBER is the sequential process number and
// YEAR is a two- or four-digit year. References are case-insensitive:
// "dmd.0090/25" and "DMD.0090/25" identify the same process, and the
// normalized uppercase form is the key used against every source.
package ref

import (
	"regexp"
	"strings"
)

// refPattern validates the CATEGORY.NUMBER/YEAR shape after
// normalization.
var refPattern = regexp.MustCompile(`^[A-Z]{2,4}\.\d{1,6}/\d{2}(\d{2})?$`)

// Ref is a validated, normalized process reference.
type Ref struct {
	// Category is the business unit/client code, e.g. "DMD".
	Category string

	// Number is the zero-padded sequential part, e.g. "0090".
	Number string

	// Year is the two- or four-digit year suffix, e.g. "25".
	Year string

	norm string
}

// Parse validates a raw process reference and returns its normalized
// form. Input is trimmed and uppercased before validation. Malformed
// references are rejected before any data source is queried.
func Parse(raw string) (Ref, error) {
	norm := Normalize(raw)
	if norm == "" {
		return Ref{}, EmptyRefError()
	}
	if !strings.Contains(norm, ".") || !strings.Contains(norm, "/") {
		return Ref{}, FormatError(raw)
	}
	if !refPattern.MatchString(norm) {
		return Ref{}, FormatError(raw)
	}

	dot := strings.Index(norm, ".")
	slash := strings.Index(norm, "/")

	return Ref{
		Category: norm[:dot],
		Number:   norm[dot+1 : slash],
		Year:     norm[slash+1:],
		norm:     norm,
	}, nil
}

// Normalize uppercases and trims a raw reference without validating it.
// Used for cache keys and database lookups so that "dmd.0090/25",
// "DMD.0090/25" and " DMD.0090/25 " resolve identically.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// String returns the normalized reference, e.g. "DMD.0090/25".
func (r Ref) String() string {
	return r.norm
}

// IsZero reports whether the Ref was produced by a failed Parse.
func (r Ref) IsZero() bool {
	return r.norm == ""
}
