package taxonomy

import (
	"fmt"
)

// Validate checks the taxonomy for structural errors: it must be
// non-empty, IDs must be positive and unique, names must be present.
func (t *Taxonomy) Validate() error {
	if len(t.ExpenseTypes) == 0 {
		return fmt.Errorf("no expense types specified in taxonomy")
	}

	seen := make(map[int]string, len(t.ExpenseTypes))
	for i, et := range t.ExpenseTypes {
		if et.ID <= 0 {
			return fmt.Errorf("expense type %d: id must be positive", i+1)
		}
		if et.Name == "" {
			return fmt.Errorf("expense type id %d: name is required", et.ID)
		}
		if prev, ok := seen[et.ID]; ok {
			return fmt.Errorf(
				"expense type id %d is duplicated (%q and %q)",
				et.ID, prev, et.Name,
			)
		}
		seen[et.ID] = et.Name
	}

	t.index()
	return nil
}
