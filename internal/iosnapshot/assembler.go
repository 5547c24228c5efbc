// Package iosnapshot assembles the read-only per-process snapshot from
// PRIMARY. This is an impure I/O package implementing the
// maike.Assembler contract.
//
// Reads touch PRIMARY only: no legacy fallback, no external calls, no
// writes. A failing sub-entity query degrades that collection to empty
// with a warning instead of aborting the whole assembly; only a
// failure on the process row itself is an error.
package iosnapshot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/helenomaffra/maikedb/pkg/ref"
	"github.com/helenomaffra/maikedb/pkg/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type assembler struct {
	operator db.Operator
}

// New creates an Assembler reading from the PRIMARY pool.
func New(op db.Operator) maike.Assembler {
	return &assembler{operator: op}
}

// Assemble builds the snapshot for one process reference. A missing
// process row yields a snapshot with Process == nil and empty
// collections, not an error.
func (a *assembler) Assemble(
	ctx context.Context,
	r ref.Ref,
) (*maike.Snapshot, error) {
	pool := a.operator.Pool(db.Primary)
	if pool == nil {
		return nil, QueryError("import_processes", r.String(),
			errors.New("primary database not connected"))
	}

	snap := &maike.Snapshot{
		Completeness: maike.Completeness{
			DocCounts: make(map[maike.DocumentType]int),
		},
	}

	proc, err := a.fetchProcess(ctx, pool, r)
	if err != nil {
		return nil, err
	}
	snap.Process = proc
	snap.Completeness.HasProcess = proc != nil

	snap.Documents = a.fetchDocuments(ctx, pool, r)
	for i := range snap.Documents {
		if dt, ok := maike.ParseDocumentType(snap.Documents[i].DocumentType); ok {
			snap.Completeness.DocCounts[dt]++
		}
	}

	snap.Values = a.fetchValues(ctx, pool, r)
	snap.Taxes = a.fetchTaxes(ctx, pool, r)
	snap.Expenses = a.fetchExpenses(ctx, pool, r)

	snap.Completeness.ValueCount = len(snap.Values)
	snap.Completeness.TaxCount = len(snap.Taxes)
	snap.Completeness.ExpenseCount = len(snap.Expenses)

	return snap, nil
}

const processQuery = `
SELECT process_reference, internal_import_id, ce_number, di_number,
	duimp_number, shipment_date, expected_arrival_date,
	customs_clearance_date, status, source_system, updated_at
FROM import_processes
WHERE process_reference = $1
`

func (a *assembler) fetchProcess(
	ctx context.Context,
	pool *pgxpool.Pool,
	r ref.Ref,
) (*schema.ImportProcess, error) {
	var p schema.ImportProcess
	err := pool.QueryRow(ctx, processQuery, r.String()).Scan(
		&p.ProcessReference, &p.InternalImportID, &p.CENumber,
		&p.DINumber, &p.DuimpNumber, &p.ShipmentDate,
		&p.ExpectedArrivalDate, &p.ClearanceDate, &p.Status,
		&p.SourceSystem, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, QueryError("import_processes", r.String(), err)
	}
	return &p, nil
}

const documentsQuery = `
SELECT id, document_number, document_type, document_version,
	process_reference, status_text, status_code, customs_channel,
	registration_date, status_date, clearance_date, source_system,
	last_updated
FROM customs_documents
WHERE process_reference = $1
ORDER BY document_type, document_number
`

func (a *assembler) fetchDocuments(
	ctx context.Context,
	pool *pgxpool.Pool,
	r ref.Ref,
) []schema.CustomsDocument {
	rows, err := pool.Query(ctx, documentsQuery, r.String())
	if err != nil {
		degrade("customs_documents", r, err)
		return nil
	}
	defer rows.Close()

	var res []schema.CustomsDocument
	for rows.Next() {
		var d schema.CustomsDocument
		err = rows.Scan(&d.ID, &d.DocumentNumber, &d.DocumentType,
			&d.DocumentVersion, &d.ProcessReference, &d.StatusText,
			&d.StatusCode, &d.CustomsChannel, &d.RegistrationDate,
			&d.StatusDate, &d.ClearanceDate, &d.SourceSystem,
			&d.LastUpdated)
		if err != nil {
			degrade("customs_documents", r, err)
			return nil
		}
		res = append(res, d)
	}
	if err := rows.Err(); err != nil {
		degrade("customs_documents", r, err)
		return nil
	}
	return res
}

const valuesQuery = `
SELECT id, process_reference, document_number, document_type,
	value_kind, currency, amount, exchange_rate, value_date,
	source_system, updated_at
FROM declared_values
WHERE process_reference = $1
ORDER BY document_number, value_kind, currency
`

func (a *assembler) fetchValues(
	ctx context.Context,
	pool *pgxpool.Pool,
	r ref.Ref,
) []schema.DeclaredValue {
	rows, err := pool.Query(ctx, valuesQuery, r.String())
	if err != nil {
		degrade("declared_values", r, err)
		return nil
	}
	defer rows.Close()

	var res []schema.DeclaredValue
	for rows.Next() {
		var v schema.DeclaredValue
		err = rows.Scan(&v.ID, &v.ProcessReference, &v.DocumentNumber,
			&v.DocumentType, &v.ValueKind, &v.Currency, &v.Amount,
			&v.ExchangeRate, &v.ValueDate, &v.SourceSystem, &v.UpdatedAt)
		if err != nil {
			degrade("declared_values", r, err)
			return nil
		}
		res = append(res, v)
	}
	if err := rows.Err(); err != nil {
		degrade("declared_values", r, err)
		return nil
	}
	return res
}

const taxesQuery = `
SELECT id, process_reference, document_number, document_type, tax_kind,
	revenue_code, amount_local_currency, amount_foreign_currency,
	payment_date, paid, amendment_number, source_system, updated_at
FROM import_taxes
WHERE process_reference = $1
ORDER BY document_number, tax_kind, amendment_number NULLS FIRST
`

func (a *assembler) fetchTaxes(
	ctx context.Context,
	pool *pgxpool.Pool,
	r ref.Ref,
) []schema.ImportTax {
	rows, err := pool.Query(ctx, taxesQuery, r.String())
	if err != nil {
		degrade("import_taxes", r, err)
		return nil
	}
	defer rows.Close()

	var res []schema.ImportTax
	for rows.Next() {
		var t schema.ImportTax
		err = rows.Scan(&t.ID, &t.ProcessReference, &t.DocumentNumber,
			&t.DocumentType, &t.TaxKind, &t.RevenueCode, &t.AmountLocal,
			&t.AmountForeign, &t.PaymentDate, &t.Paid,
			&t.AmendmentNumber, &t.SourceSystem, &t.UpdatedAt)
		if err != nil {
			degrade("import_taxes", r, err)
			return nil
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		degrade("import_taxes", r, err)
		return nil
	}
	return res
}

const expensesQuery = `
SELECT id, bank_transaction_id, expense_type_id, process_reference,
	amount, percentage_of_transaction, classification_source,
	confidence_level, validated, created_at
FROM linked_expenses
WHERE process_reference = $1
ORDER BY created_at, id
`

func (a *assembler) fetchExpenses(
	ctx context.Context,
	pool *pgxpool.Pool,
	r ref.Ref,
) []schema.LinkedExpense {
	rows, err := pool.Query(ctx, expensesQuery, r.String())
	if err != nil {
		degrade("linked_expenses", r, err)
		return nil
	}
	defer rows.Close()

	var res []schema.LinkedExpense
	for rows.Next() {
		var e schema.LinkedExpense
		err = rows.Scan(&e.ID, &e.BankTransactionID, &e.ExpenseTypeID,
			&e.ProcessReference, &e.Amount, &e.Percentage,
			&e.ClassificationSource, &e.ConfidenceLevel, &e.Validated,
			&e.CreatedAt)
		if err != nil {
			degrade("linked_expenses", r, err)
			return nil
		}
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		degrade("linked_expenses", r, err)
		return nil
	}
	return res
}

// degrade logs a sub-entity failure. The collection comes back empty;
// the snapshot still assembles.
func degrade(table string, r ref.Ref, err error) {
	slog.Warn("snapshot collection degraded to empty",
		"table", table, "process_reference", r.String(), "error", err)
}
