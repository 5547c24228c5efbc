package ref_test

import (
	"testing"

	"github.com/helenomaffra/maikedb/pkg/ref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		msg      string
		raw      string
		norm     string
		category string
		number   string
		year     string
	}{
		{"uppercase", "DMD.0090/25", "DMD.0090/25", "DMD", "0090", "25"},
		{"lowercase", "dmd.0090/25", "DMD.0090/25", "DMD", "0090", "25"},
		{"whitespace", " DMD.0090/25 ", "DMD.0090/25", "DMD", "0090", "25"},
		{"other category", "BND.0114/24", "BND.0114/24", "BND", "0114", "24"},
		{"two letter category", "ab.1/25", "AB.1/25", "AB", "1", "25"},
		{"four letter category", "ACME.123/2025", "ACME.123/2025", "ACME", "123", "2025"},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			r, err := ref.Parse(v.raw)
			require.NoError(t, err)
			assert.Equal(t, v.norm, r.String())
			assert.Equal(t, v.category, r.Category)
			assert.Equal(t, v.number, r.Number)
			assert.Equal(t, v.year, r.Year)
			assert.False(t, r.IsZero())
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		msg string
		raw string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"missing dot", "DMD0090/25"},
		{"missing slash", "DMD.009025"},
		{"no category", ".0090/25"},
		{"category too long", "ABCDE.1/25"},
		{"single letter category", "D.0090/25"},
		{"digits in category", "D1D.0090/25"},
		{"year too short", "DMD.0090/2"},
		{"garbage", "not a reference"},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			r, err := ref.Parse(v.raw)
			require.Error(t, err)
			assert.True(t, r.IsZero())
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "DMD.0090/25", ref.Normalize(" dmd.0090/25 "))
	assert.Equal(t, "", ref.Normalize("  "))
}

// Normalized results must be identical regardless of input casing so
// that cache keys and database lookups collapse to one row.
func TestNormalizationInvariant(t *testing.T) {
	inputs := []string{"dmd.0090/25", "DMD.0090/25", " DMD.0090/25 ", "Dmd.0090/25"}
	var norms []string
	for _, in := range inputs {
		r, err := ref.Parse(in)
		require.NoError(t, err)
		norms = append(norms, r.String())
	}
	for _, n := range norms {
		assert.Equal(t, norms[0], n)
	}
}
