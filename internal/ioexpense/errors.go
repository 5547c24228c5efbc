package ioexpense

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/errcode"
)

// SumExceededError creates an error for a batch whose classified
// amounts would exceed the bank transaction's value.
func SumExceededError(txnID int64, sum, limit float64) error {
	msg := `Classified amounts for transaction <em>%d</em> would reach
%.2f, above the transaction limit of %.2f

No rows were written. Reduce the amounts or remove existing
classifications first.`
	vars := []any{txnID, sum, limit}

	return &gn.Error{
		Code: errcode.ExpenseSumExceededError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"classification sum %.2f exceeds limit %.2f for transaction %d",
			sum, limit, txnID),
	}
}

// InvalidAmountError creates an error for a non-positive line amount.
func InvalidAmountError(txnID int64, amount float64) error {
	msg := `Classification amount %.2f for transaction <em>%d</em> must
be positive`
	vars := []any{amount, txnID}

	return &gn.Error{
		Code: errcode.ExpenseSumExceededError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"non-positive classification amount %.2f for transaction %d",
			amount, txnID),
	}
}

// TaxonomyError creates an error for an expense-type ID the taxonomy
// does not define.
func TaxonomyError(id int) error {
	msg := `Expense type <em>%d</em> is not defined in the taxonomy

Check expense_types.yaml for the list of valid types.`
	vars := []any{id}

	return &gn.Error{
		Code: errcode.ExpenseTaxonomyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown expense type %d", id),
	}
}

// WriteError creates an error for a failed classification write.
func WriteError(txnID int64, err error) error {
	msg := `Cannot write classifications for transaction <em>%d</em>`
	vars := []any{txnID}

	return &gn.Error{
		Code: errcode.ExpenseWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("classification write for transaction %d failed: %w",
			txnID, err),
	}
}

func errNotConnected(id db.DatabaseID) error {
	return fmt.Errorf("database %s is not connected", id)
}
