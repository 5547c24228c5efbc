// Package taxonomy provides the fixed expense-type taxonomy that
// linked-expense classifications point into.
//
// This package defines the schema for expense_types.yaml, which
// operators maintain to describe every expense category a bank
// transaction can be classified against (customs duties, storage,
// demurrage, broker fees...). Loading is done by the I/O layer; this
// package validates structure and answers lookups.
package taxonomy

// Taxonomy is the complete expense-type taxonomy.
type Taxonomy struct {
	// ExpenseTypes is the list of classification targets.
	ExpenseTypes []ExpenseType `yaml:"expense_types"`

	byID map[int]*ExpenseType
}

// ExpenseType is one entry of the taxonomy.
type ExpenseType struct {
	// ID identifies the expense type. Stable across environments.
	ID int `yaml:"id"`

	// Name is the short label, e.g. "AFRMM", "Armazenagem".
	Name string `yaml:"name"`

	// Description explains when the type applies.
	Description string `yaml:"description,omitempty"`

	// TaxRelated marks types derived from import-tax lines rather
	// than operational costs.
	TaxRelated bool `yaml:"tax_related,omitempty"`
}

// Get returns the expense type for an ID, or nil when the taxonomy
// does not define it.
func (t *Taxonomy) Get(id int) *ExpenseType {
	if t.byID == nil {
		t.index()
	}
	return t.byID[id]
}

// Has reports whether an expense-type ID is defined.
func (t *Taxonomy) Has(id int) bool {
	return t.Get(id) != nil
}

func (t *Taxonomy) index() {
	t.byID = make(map[int]*ExpenseType, len(t.ExpenseTypes))
	for i := range t.ExpenseTypes {
		t.byID[t.ExpenseTypes[i].ID] = &t.ExpenseTypes[i]
	}
}
