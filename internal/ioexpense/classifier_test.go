package ioexpense

import (
	"context"
	"testing"

	"github.com/helenomaffra/maikedb/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTaxonomy() *taxonomy.Taxonomy {
	return &taxonomy.Taxonomy{
		ExpenseTypes: []taxonomy.ExpenseType{
			{ID: 1, Name: "AFRMM", TaxRelated: true},
			{ID: 2, Name: "Armazenagem"},
			{ID: 3, Name: "Honorários"},
		},
	}
}

// validation runs before any database work, so a nil operator catches
// batches that should be rejected upfront.
func newValidatingClassifier() *Classifier {
	return New(nil, testTaxonomy())
}

func TestClassifyEmptyBatch(t *testing.T) {
	c := newValidatingClassifier()
	err := c.Classify(context.Background(), &Batch{BankTransactionID: 7})
	assert.NoError(t, err, "an empty batch is a no-op")
}

func TestClassifyRejectsBadReference(t *testing.T) {
	c := newValidatingClassifier()

	err := c.Classify(context.Background(), &Batch{
		BankTransactionID: 7,
		TransactionAmount: -1000,
		Lines: []Classification{
			{ProcessReference: "not a ref", ExpenseTypeID: 1, Amount: 100},
		},
	})
	require.Error(t, err)
}

func TestClassifyRejectsUnknownExpenseType(t *testing.T) {
	c := newValidatingClassifier()

	err := c.Classify(context.Background(), &Batch{
		BankTransactionID: 7,
		TransactionAmount: -1000,
		Lines: []Classification{
			{ProcessReference: "DMD.0090/25", ExpenseTypeID: 99, Amount: 100},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "99")
}

func TestClassifyRejectsNonPositiveAmount(t *testing.T) {
	c := newValidatingClassifier()

	tests := []struct {
		msg    string
		amount float64
	}{
		{"zero amount", 0},
		{"negative amount", -50},
	}
	for _, v := range tests {
		err := c.Classify(context.Background(), &Batch{
			BankTransactionID: 7,
			TransactionAmount: -1000,
			Lines: []Classification{
				{
					ProcessReference: "DMD.0090/25",
					ExpenseTypeID:    1,
					Amount:           v.amount,
				},
			},
		})
		assert.Error(t, err, v.msg)
	}
}

func TestClassifyNormalizesReference(t *testing.T) {
	c := newValidatingClassifier()

	batch := &Batch{
		BankTransactionID: 7,
		TransactionAmount: -1000,
		Lines: []Classification{
			{ProcessReference: "dmd.0090/25", ExpenseTypeID: 5, Amount: 100},
		},
	}
	// the unknown type aborts after normalization already happened
	err := c.Classify(context.Background(), batch)
	require.Error(t, err)
	assert.Equal(t, "DMD.0090/25", batch.Lines[0].ProcessReference)
}
