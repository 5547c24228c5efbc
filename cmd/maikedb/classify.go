package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/internal/ioconfig"
	"github.com/helenomaffra/maikedb/internal/iodb"
	"github.com/helenomaffra/maikedb/internal/ioexpense"
	"github.com/helenomaffra/maikedb/pkg/errcode"
	"github.com/spf13/cobra"
)

func getClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify TRANSACTION_ID AMOUNT LINE...",
		Short: "Link expense lines to a bank transaction",
		Long: `Link one or more expense classifications to a bank transaction.

Each LINE has the form REFERENCE:TYPE_ID:AMOUNT, where TYPE_ID is an
expense-type identifier from the taxonomy file. The batch is validated
as a whole: if any line is invalid, or the classified sum would exceed
the transaction's absolute value, nothing is written.

Examples:
  maikedb classify 44781 -1523.77 DMD.0090/25:3:1523.77
  maikedb classify 44781 -1523.77 DMD.0090/25:3:1000 ALH.0012/25:3:523.77`,
		Args: cobra.MinimumNArgs(3),
		RunE: runClassify,
	}

	return cmd
}

func runClassify(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	batch, err := parseBatch(args)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	tax, err := ioconfig.LoadTaxonomy(cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	cls := ioexpense.New(op, tax)
	if err := cls.Classify(ctx, batch); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Linked <em>%d</em> expense line(s) to transaction <em>%d</em>",
		len(batch.Lines), batch.BankTransactionID)
	return nil
}

// parseBatch turns the positional arguments into a classification
// batch. CLI-entered lines are manual classifications.
func parseBatch(args []string) (*ioexpense.Batch, error) {
	txnID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, badLineError(args[0], "transaction id is not an integer")
	}
	txnAmount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return nil, badLineError(args[1], "transaction amount is not a number")
	}

	batch := &ioexpense.Batch{
		BankTransactionID: txnID,
		TransactionAmount: txnAmount,
	}
	for _, arg := range args[2:] {
		parts := strings.Split(arg, ":")
		if len(parts) != 3 {
			return nil, badLineError(arg, "expected REFERENCE:TYPE_ID:AMOUNT")
		}
		typeID, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, badLineError(arg, "expense type id is not an integer")
		}
		amount, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, badLineError(arg, "amount is not a number")
		}
		batch.Lines = append(batch.Lines, ioexpense.Classification{
			ProcessReference: parts[0],
			ExpenseTypeID:    typeID,
			Amount:           amount,
			Source:           "manual",
			Confidence:       1,
		})
	}
	return batch, nil
}

func badLineError(arg, reason string) error {
	msg := `Cannot parse classify argument <em>%s</em>: %s

Lines have the form REFERENCE:TYPE_ID:AMOUNT, for example
DMD.0090/25:3:1523.77.`
	vars := []any{arg, reason}

	return &gn.Error{
		Code: errcode.UnknownError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("bad classify argument %q: %s", arg, reason),
	}
}
