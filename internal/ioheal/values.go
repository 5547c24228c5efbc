package ioheal

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/helenomaffra/maikedb/pkg/ref"
	"github.com/jackc/pgx/v5/pgconn"
)

// HealValuesAndTaxes backfills declared values and tax lines for a
// process whose snapshot shows them missing while a DI or DUIMP is
// linked. DUIMP is tried first; the first declaration type that yields
// any line wins. A CE alone never triggers this heal.
func (h *healer) HealValuesAndTaxes(ctx context.Context, r ref.Ref) error {
	snap, err := h.assemble.Assemble(ctx, r)
	if err != nil {
		return err
	}
	if !snap.Completeness.NeedsValueHeal() {
		slog.Debug("values and taxes already present",
			"process_reference", r.String())
		return nil
	}

	for _, dt := range snap.Completeness.DeclaredDocTypes() {
		number, _, err := h.linkedDocument(ctx, r, dt)
		if err != nil {
			return err
		}
		if number == "" {
			continue
		}

		values, taxes, err := h.fetchValuesAndTaxes(ctx, number, dt)
		if err != nil {
			slog.Warn("declaration source failed, trying next type",
				"process_reference", r.String(), "document_type", dt,
				"error", err)
			continue
		}
		if len(values) == 0 && len(taxes) == 0 {
			continue
		}

		return h.persistValuesAndTaxes(ctx, r, number, dt, values, taxes)
	}

	slog.Info("no declaration source could supply values",
		"process_reference", r.String())
	return nil
}

// fetchValuesAndTaxes reads the monetary lines from the owning
// declaration database, falling back to the live government API for
// DUIMPs when the database is not connected or empty.
func (h *healer) fetchValuesAndTaxes(
	ctx context.Context,
	number string,
	dt maike.DocumentType,
) ([]maike.DeclaredAmount, []maike.TaxAmount, error) {
	if dt == maike.DocTypeDUIMP {
		values, taxes, ok, err := h.duimpFromDB(ctx, number)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			return values, taxes, nil
		}
		return h.duimpFromAPI(ctx, number)
	}
	return h.diFromLegacy(ctx, number)
}

func (h *healer) duimpFromAPI(
	ctx context.Context,
	number string,
) ([]maike.DeclaredAmount, []maike.TaxAmount, error) {
	values, err := h.decl.DuimpValues(ctx, number)
	if err != nil {
		return nil, nil, err
	}
	taxes, err := h.decl.DuimpTaxes(ctx, number)
	if err != nil {
		return nil, nil, err
	}
	return values, taxes, nil
}

const duimpValuesQuery = `
SELECT UPPER(tipo_valor), UPPER(moeda), valor, taxa_cambio, data_valor
FROM duimp_valores
WHERE numero_duimp = $1
`

const duimpTaxesQuery = `
SELECT UPPER(tributo), COALESCE(codigo_receita, ''), valor_recolhido,
	valor_devido, valor_calculado, valor_moeda, data_pagamento,
	COALESCE(pago, false), numero_retificacao
FROM duimp_tributos
WHERE numero_duimp = $1
`

// duimpFromDB reads DUIMP lines from the declarations database. The
// third return is false when the database cannot answer and the caller
// should try the live API.
func (h *healer) duimpFromDB(
	ctx context.Context,
	number string,
) ([]maike.DeclaredAmount, []maike.TaxAmount, bool, error) {
	pool := h.operator.Pool(db.Declarations)
	if pool == nil {
		return nil, nil, false, nil
	}

	rows, err := pool.Query(ctx, duimpValuesQuery, number)
	if err != nil {
		return nil, nil, false,
			SourceReadError("duimp_valores", err)
	}
	defer rows.Close()

	var values []maike.DeclaredAmount
	for rows.Next() {
		var (
			v    maike.DeclaredAmount
			kind string
			rate sql.NullFloat64
			date sql.NullTime
		)
		if err := rows.Scan(&kind, &v.Currency, &v.Amount, &rate,
			&date); err != nil {
			return nil, nil, false, SourceReadError("duimp_valores", err)
		}
		v.Kind = maike.ValueKind(kind)
		if rate.Valid {
			v.ExchangeRate = &rate.Float64
		}
		if date.Valid {
			v.ValueDate = &date.Time
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, false, SourceReadError("duimp_valores", err)
	}

	taxRows, err := pool.Query(ctx, duimpTaxesQuery, number)
	if err != nil {
		return nil, nil, false, SourceReadError("duimp_tributos", err)
	}
	defer taxRows.Close()

	var taxes []maike.TaxAmount
	for taxRows.Next() {
		var (
			t       maike.TaxAmount
			payDate sql.NullTime
			amend   sql.NullInt32
		)
		err = taxRows.Scan(&t.Kind, &t.RevenueCode, &t.AmountCollected,
			&t.AmountDue, &t.AmountCalc, &t.AmountForeign,
			&payDate, &t.Paid, &amend)
		if err != nil {
			return nil, nil, false, SourceReadError("duimp_tributos", err)
		}
		if payDate.Valid {
			t.PaymentDate = &payDate.Time
		}
		if amend.Valid {
			n := int(amend.Int32)
			t.AmendmentNumber = &n
		}
		taxes = append(taxes, t)
	}
	if err := taxRows.Err(); err != nil {
		return nil, nil, false, SourceReadError("duimp_tributos", err)
	}

	return values, taxes, len(values) > 0 || len(taxes) > 0, nil
}

// Legacy DI schema keeps the declared values as columns on the
// declaration row, not as lines. The mapping pivots them into kinds
// and skips empty slots.
const legacyDIValuesQuery = `
SELECT UPPER(COALESCE(moeda, 'BRL')), COALESCE(valor_vmle, 0),
	COALESCE(valor_vmld, 0), COALESCE(valor_frete, 0),
	COALESCE(valor_seguro, 0), taxa_cambio, data_registro
FROM declaracoes_importacao
WHERE numero_di = $1
`

const legacyDITaxesQuery = `
SELECT UPPER(tributo), COALESCE(codigo_receita, ''), valor_recolhido,
	valor_devido, valor_calculado, data_pagamento, numero_retificacao
FROM tributos_declaracao
WHERE numero_di = $1
`

func (h *healer) diFromLegacy(
	ctx context.Context,
	number string,
) ([]maike.DeclaredAmount, []maike.TaxAmount, error) {
	pool := h.operator.Pool(db.Legacy)
	if pool == nil {
		return nil, nil, SourceReadError("legacy database",
			errNotConnected(db.Legacy))
	}

	var (
		currency             string
		vmle, vmld, frt, ins float64
		rate                 sql.NullFloat64
		regDate              sql.NullTime
	)
	err := pool.QueryRow(ctx, legacyDIValuesQuery, number).Scan(
		&currency, &vmle, &vmld, &frt, &ins, &rate, &regDate,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil, nil
		}
		return nil, nil, SourceReadError("declaracoes_importacao", err)
	}

	var values []maike.DeclaredAmount
	add := func(kind maike.ValueKind, amount float64) {
		if amount == 0 {
			return
		}
		v := maike.DeclaredAmount{
			Kind:     kind,
			Currency: currency,
			Amount:   amount,
		}
		if rate.Valid {
			v.ExchangeRate = &rate.Float64
		}
		if regDate.Valid {
			v.ValueDate = &regDate.Time
		}
		values = append(values, v)
	}
	add(maike.ValueVMLE, vmle)
	add(maike.ValueVMLD, vmld)
	add(maike.ValueFreight, frt)
	add(maike.ValueInsurance, ins)

	rows, err := pool.Query(ctx, legacyDITaxesQuery, number)
	if err != nil {
		return nil, nil, SourceReadError("tributos_declaracao", err)
	}
	defer rows.Close()

	var taxes []maike.TaxAmount
	for rows.Next() {
		var (
			t       maike.TaxAmount
			payDate sql.NullTime
			amend   sql.NullInt32
		)
		err = rows.Scan(&t.Kind, &t.RevenueCode, &t.AmountCollected,
			&t.AmountDue, &t.AmountCalc, &payDate, &amend)
		if err != nil {
			return nil, nil, SourceReadError("tributos_declaracao", err)
		}
		if payDate.Valid {
			t.PaymentDate = &payDate.Time
			t.Paid = true
		}
		if amend.Valid {
			n := int(amend.Int32)
			t.AmendmentNumber = &n
		}
		taxes = append(taxes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, SourceReadError("tributos_declaracao", err)
	}

	return values, taxes, nil
}

const upsertValueQuery = `
INSERT INTO declared_values
	(process_reference, document_number, document_type, value_kind,
	currency, amount, exchange_rate, value_date, source_system,
	updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
ON CONFLICT (process_reference, document_number, document_type,
	value_kind, currency)
DO UPDATE SET
	amount = EXCLUDED.amount,
	exchange_rate = COALESCE(EXCLUDED.exchange_rate,
		declared_values.exchange_rate),
	value_date = COALESCE(EXCLUDED.value_date, declared_values.value_date),
	source_system = EXCLUDED.source_system,
	updated_at = NOW()
WHERE declared_values.amount IS DISTINCT FROM EXCLUDED.amount
`

const upsertTaxQuery = `
INSERT INTO import_taxes
	(process_reference, document_number, document_type, tax_kind,
	revenue_code, amount_local_currency, amount_foreign_currency,
	payment_date, paid, amendment_number, source_system, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
ON CONFLICT (process_reference, document_number, document_type,
	tax_kind, COALESCE(amendment_number, -1))
DO UPDATE SET
	revenue_code = COALESCE(EXCLUDED.revenue_code,
		import_taxes.revenue_code),
	amount_local_currency = EXCLUDED.amount_local_currency,
	amount_foreign_currency = COALESCE(EXCLUDED.amount_foreign_currency,
		import_taxes.amount_foreign_currency),
	payment_date = COALESCE(EXCLUDED.payment_date,
		import_taxes.payment_date),
	paid = import_taxes.paid OR EXCLUDED.paid,
	source_system = EXCLUDED.source_system,
	updated_at = NOW()
WHERE import_taxes.amount_local_currency
	IS DISTINCT FROM EXCLUDED.amount_local_currency
	OR (import_taxes.paid IS DISTINCT FROM EXCLUDED.paid AND EXCLUDED.paid)
`

// rowExecer is the slice of the pool the line writes need.
type rowExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// persistValuesAndTaxes writes the fetched lines with one independent
// statement per row: a failing row never discards siblings that
// already landed, because every write keys naturally and re-running
// with identical source data touches nothing.
func (h *healer) persistValuesAndTaxes(
	ctx context.Context,
	r ref.Ref,
	number string,
	dt maike.DocumentType,
	values []maike.DeclaredAmount,
	taxes []maike.TaxAmount,
) error {
	pool := h.operator.Pool(db.Primary)
	if pool == nil {
		return SourceReadError("primary database", errNotConnected(db.Primary))
	}

	source := maike.SourceLegacy
	if dt == maike.DocTypeDUIMP {
		source = maike.SourceAPI
		if h.operator.Pool(db.Declarations) != nil {
			source = "declarations"
		}
	}

	docNumber := strings.ToUpper(strings.TrimSpace(number))
	written, firstErr := writeLines(ctx, pool, r.String(), docNumber, dt,
		source, values, taxes)
	if firstErr != nil {
		return PartialWriteError(r.String(), written, firstErr)
	}

	slog.Info("values and taxes healed",
		"process_reference", r.String(), "document_number", docNumber,
		"document_type", dt, "rows", written, "source", source)
	return nil
}

// writeLines upserts each line on its own. Value lines with a zero
// amount and tax lines without any usable amount are skipped. Failed
// rows are counted and logged; the first failure is reported after the
// remaining rows had their chance.
func writeLines(
	ctx context.Context,
	ex rowExecer,
	reference, docNumber string,
	dt maike.DocumentType,
	source string,
	values []maike.DeclaredAmount,
	taxes []maike.TaxAmount,
) (written int, firstErr error) {
	fail := func(table string, err error) {
		slog.Warn("row write failed, continuing with siblings",
			"process_reference", reference, "table", table, "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, v := range values {
		if v.Amount == 0 {
			continue
		}
		_, err := ex.Exec(ctx, upsertValueQuery,
			reference, docNumber, string(dt), string(v.Kind),
			v.Currency, v.Amount, v.ExchangeRate, v.ValueDate, source,
		)
		if err != nil {
			fail("declared_values", err)
			continue
		}
		written++
	}

	for _, t := range taxes {
		amount, ok := t.BestAmount()
		if !ok {
			continue
		}
		_, err := ex.Exec(ctx, upsertTaxQuery,
			reference, docNumber, string(dt), t.Kind,
			nullIfEmpty(t.RevenueCode), amount, t.AmountForeign,
			t.PaymentDate, t.Paid, t.AmendmentNumber, source,
		)
		if err != nil {
			fail("import_taxes", err)
			continue
		}
		written++
	}

	return written, firstErr
}
