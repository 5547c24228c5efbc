package schema_test

import (
	"strings"
	"testing"

	"github.com/helenomaffra/maikedb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllModels(t *testing.T) {
	models := schema.AllModels()
	require.Len(t, models, 6)
}

func TestTableNames(t *testing.T) {
	tests := []struct {
		msg   string
		model interface{ TableName() string }
		want  string
	}{
		{"process", schema.ImportProcess{}, "import_processes"},
		{"document", schema.CustomsDocument{}, "customs_documents"},
		{"value", schema.DeclaredValue{}, "declared_values"},
		{"tax", schema.ImportTax{}, "import_taxes"},
		{"expense", schema.LinkedExpense{}, "linked_expenses"},
		{"event", schema.ChangeEvent{}, "change_events"},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			assert.Equal(t, v.want, v.model.TableName())
		})
	}
}

func TestNaturalKeyIndexes(t *testing.T) {
	require.Len(t, schema.NaturalKeyIndexes, 4)

	for _, ddl := range schema.NaturalKeyIndexes {
		assert.Contains(t, ddl, "CREATE UNIQUE INDEX IF NOT EXISTS",
			"all natural-key indexes must be unique and idempotent")
	}

	// The two document indexes split rows on version presence so that
	// NULL and empty-string versions collapse onto the same key space.
	joined := strings.Join(schema.NaturalKeyIndexes, "\n")
	assert.Contains(t, joined, "WHERE document_version IS NULL OR document_version = ''")
	assert.Contains(t, joined, "WHERE document_version IS NOT NULL AND document_version <> ''")

	// NULL amendment numbers must act as one distinct value.
	assert.Contains(t, joined, "COALESCE(amendment_number, -1)")
}
