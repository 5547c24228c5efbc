package policy_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyDatabases(t *testing.T) {
	cfg := config.New()
	p := policy.New(cfg, nil)

	assert.Equal(t, db.Primary, p.Primary())
	assert.Equal(t, db.Legacy, p.Legacy())
	assert.True(t, p.LegacyFallbackAllowed())
}

func TestPolicyFallbackDisabled(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptLegacyFallback(false)})

	p := policy.New(cfg, nil)
	assert.False(t, p.LegacyFallbackAllowed())
}

func TestLogFallback(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	p := policy.New(config.New(), log)
	p.LogFallback("DMD.0090/25", "resolver", "missing in primary",
		"SELECT * FROM processos WHERE referencia = $1")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "DMD.0090/25")
	assert.Contains(t, out, "resolver")
	assert.Contains(t, out, "missing in primary")
}

func TestLogFallbackTruncatesQuery(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	long := strings.Repeat("SELECT ", 100)
	p := policy.New(config.New(), log)
	p.LogFallback("BND.0114/24", "healer", "values missing", long)

	assert.NotContains(t, buf.String(), long)
}
