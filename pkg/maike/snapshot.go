package maike

import (
	"github.com/helenomaffra/maikedb/pkg/schema"
)

// Snapshot is a read-only aggregation of everything PRIMARY holds for
// one process. A missing process row yields a Snapshot with Process ==
// nil and empty collections; that is a legitimate state the auto-heal
// path exists to repair, not an error.
type Snapshot struct {
	Process   *schema.ImportProcess
	Documents []schema.CustomsDocument
	Values    []schema.DeclaredValue
	Taxes     []schema.ImportTax
	Expenses  []schema.LinkedExpense

	Completeness Completeness
}

// Completeness summarizes what the snapshot contains, used to decide
// whether auto-heal should run.
type Completeness struct {
	// HasProcess is true when a process row exists in PRIMARY.
	HasProcess bool

	// DocCounts holds the number of linked documents per type.
	DocCounts map[DocumentType]int

	ValueCount   int
	TaxCount     int
	ExpenseCount int
}

// HasDocuments reports whether at least one customs document is
// linked.
func (c Completeness) HasDocuments() bool {
	for _, n := range c.DocCounts {
		if n > 0 {
			return true
		}
	}
	return false
}

// NeedsValueHeal reports whether heal_values_and_taxes should run:
// declared values or taxes are entirely missing while a DI or DUIMP is
// linked. A CE alone carries no value breakdown, so it never triggers
// the heal.
func (c Completeness) NeedsValueHeal() bool {
	if c.ValueCount > 0 && c.TaxCount > 0 {
		return false
	}
	return c.DocCounts[DocTypeDI] > 0 || c.DocCounts[DocTypeDUIMP] > 0
}

// DeclaredDocTypes lists the declaration types present in the
// snapshot, DUIMP first (the newer format is preferred as heal
// source).
func (c Completeness) DeclaredDocTypes() []DocumentType {
	var res []DocumentType
	if c.DocCounts[DocTypeDUIMP] > 0 {
		res = append(res, DocTypeDUIMP)
	}
	if c.DocCounts[DocTypeDI] > 0 {
		res = append(res, DocTypeDI)
	}
	return res
}
