package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBatch(t *testing.T) {
	batch, err := parseBatch([]string{
		"44781", "-1523.77",
		"DMD.0090/25:3:1000", "ALH.0012/25:3:523.77",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(44781), batch.BankTransactionID)
	assert.InDelta(t, -1523.77, batch.TransactionAmount, 0.001)
	require.Len(t, batch.Lines, 2)
	assert.Equal(t, "DMD.0090/25", batch.Lines[0].ProcessReference)
	assert.Equal(t, 3, batch.Lines[0].ExpenseTypeID)
	assert.InDelta(t, 523.77, batch.Lines[1].Amount, 0.001)
	assert.Equal(t, "manual", batch.Lines[0].Source)
}

func TestParseBatchBadArguments(t *testing.T) {
	tests := []struct {
		msg  string
		args []string
	}{
		{"txn id", []string{"abc", "-100", "DMD.0090/25:3:100"}},
		{"txn amount", []string{"44781", "much", "DMD.0090/25:3:100"}},
		{"line form", []string{"44781", "-100", "DMD.0090/25=100"}},
		{"type id", []string{"44781", "-100", "DMD.0090/25:despesa:100"}},
		{"line amount", []string{"44781", "-100", "DMD.0090/25:3:ten"}},
	}
	for _, tt := range tests {
		_, err := parseBatch(tt.args)
		assert.Error(t, err, tt.msg)
	}
}

func TestClassifyCommandArgs(t *testing.T) {
	cmd := getClassifyCmd()
	err := cmd.Args(cmd, []string{"44781", "-100"})
	assert.Error(t, err, "requires at least one line")
}
