package taxonomy_test

import (
	"testing"

	"github.com/helenomaffra/maikedb/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var taxonomyYAML = `
expense_types:
  - id: 1
    name: AFRMM
    description: merchant-marine freight surcharge
    tax_related: true
  - id: 2
    name: Armazenagem
  - id: 3
    name: Honorários de despachante
`

func TestLoadAndValidate(t *testing.T) {
	var tx taxonomy.Taxonomy
	err := yaml.Unmarshal([]byte(taxonomyYAML), &tx)
	require.NoError(t, err)
	require.NoError(t, tx.Validate())

	require.Len(t, tx.ExpenseTypes, 3)
	assert.True(t, tx.Has(1))
	assert.True(t, tx.Has(3))
	assert.False(t, tx.Has(99))

	et := tx.Get(1)
	require.NotNil(t, et)
	assert.Equal(t, "AFRMM", et.Name)
	assert.True(t, et.TaxRelated)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		msg string
		tx  taxonomy.Taxonomy
	}{
		{
			msg: "empty taxonomy",
			tx:  taxonomy.Taxonomy{},
		},
		{
			msg: "zero id",
			tx: taxonomy.Taxonomy{ExpenseTypes: []taxonomy.ExpenseType{
				{ID: 0, Name: "AFRMM"},
			}},
		},
		{
			msg: "missing name",
			tx: taxonomy.Taxonomy{ExpenseTypes: []taxonomy.ExpenseType{
				{ID: 1},
			}},
		},
		{
			msg: "duplicate id",
			tx: taxonomy.Taxonomy{ExpenseTypes: []taxonomy.ExpenseType{
				{ID: 1, Name: "AFRMM"},
				{ID: 1, Name: "Armazenagem"},
			}},
		},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			assert.Error(t, v.tx.Validate())
		})
	}
}
