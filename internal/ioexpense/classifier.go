// Package ioexpense writes linked-expense classifications against bank
// transactions. This is an impure I/O package.
//
// A bank transaction can be split across several processes and expense
// types, but the classified amounts must never exceed the
// transaction's absolute value. The check runs against existing plus
// incoming rows before anything is written; a violation writes zero
// rows.
package ioexpense

import (
	"context"
	"math"
	"time"

	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/ref"
	"github.com/helenomaffra/maikedb/pkg/taxonomy"
)

// sumTolerance absorbs rounding noise from percentage-derived amounts.
const sumTolerance = 1.0001

// Classification is one expense line to link against a bank
// transaction.
type Classification struct {
	ProcessReference string
	ExpenseTypeID    int
	Amount           float64

	// Source: manual, automatic or tax-import-derived.
	Source string

	// Confidence in [0,1] for automatic classifications.
	Confidence float64
}

// Batch is a set of classifications for one bank transaction.
type Batch struct {
	BankTransactionID int64

	// TransactionAmount is the bank transaction's value; the sign does
	// not matter, debits come in negative.
	TransactionAmount float64

	Lines []Classification
}

// Classifier validates and persists classification batches.
type Classifier struct {
	operator db.Operator
	tax      *taxonomy.Taxonomy
}

// New creates a Classifier writing to PRIMARY.
func New(op db.Operator, tax *taxonomy.Taxonomy) *Classifier {
	return &Classifier{operator: op, tax: tax}
}

const existingSumQuery = `
SELECT COALESCE(SUM(amount), 0)
FROM linked_expenses
WHERE bank_transaction_id = $1
`

const insertExpenseQuery = `
INSERT INTO linked_expenses
	(bank_transaction_id, expense_type_id, process_reference, amount,
	percentage_of_transaction, classification_source, confidence_level,
	validated, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)
`

// Classify writes one batch. All lines are validated first: references
// must parse, expense-type IDs must exist in the taxonomy, amounts
// must be positive, and the running sum over the transaction must stay
// within its absolute value. Writes are all-or-nothing.
func (c *Classifier) Classify(ctx context.Context, batch *Batch) error {
	if len(batch.Lines) == 0 {
		return nil
	}

	limit := math.Abs(batch.TransactionAmount) * sumTolerance
	incoming := 0.0

	for i := range batch.Lines {
		line := &batch.Lines[i]

		r, err := ref.Parse(line.ProcessReference)
		if err != nil {
			return err
		}
		line.ProcessReference = r.String()

		if !c.tax.Has(line.ExpenseTypeID) {
			return TaxonomyError(line.ExpenseTypeID)
		}
		if line.Amount <= 0 {
			return InvalidAmountError(batch.BankTransactionID,
				line.Amount)
		}
		incoming += line.Amount
	}

	pool := c.operator.Pool(db.Primary)
	if pool == nil {
		return WriteError(batch.BankTransactionID,
			errNotConnected(db.Primary))
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return WriteError(batch.BankTransactionID, err)
	}
	defer tx.Rollback(ctx)

	var existing float64
	err = tx.QueryRow(ctx, existingSumQuery, batch.BankTransactionID).
		Scan(&existing)
	if err != nil {
		return WriteError(batch.BankTransactionID, err)
	}

	if existing+incoming > limit {
		return SumExceededError(batch.BankTransactionID,
			existing+incoming, limit)
	}

	now := time.Now().UTC()
	txnAbs := math.Abs(batch.TransactionAmount)

	for _, line := range batch.Lines {
		pct := 0.0
		if txnAbs > 0 {
			pct = line.Amount / txnAbs
		}
		_, err = tx.Exec(ctx, insertExpenseQuery,
			batch.BankTransactionID, line.ExpenseTypeID,
			line.ProcessReference, line.Amount, pct, line.Source,
			line.Confidence, now,
		)
		if err != nil {
			return WriteError(batch.BankTransactionID, err)
		}
	}

	return tx.Commit(ctx)
}
