// Package iostore finds process rows in the SQL stores and maps them
// to typed records at the query boundary. This is an impure I/O
// package implementing the maike.ProcessStore contract.
//
// PRIMARY and LEGACY do not share a schema: the primary tables carry a
// renamed subset of the legacy columns. Each database gets its own
// query and its own explicit mapping; nothing downstream ever touches
// a raw row.
package iostore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/helenomaffra/maikedb/pkg/ref"
	"github.com/jackc/pgx/v5"
)

type store struct {
	operator db.Operator
}

// New creates a ProcessStore backed by the pgx operator.
func New(op db.Operator) maike.ProcessStore {
	return &store{operator: op}
}

const primaryProcessQuery = `
SELECT process_reference, internal_import_id, ce_number, di_number,
	duimp_number, shipment_date, expected_arrival_date,
	customs_clearance_date, status, updated_at
FROM import_processes
WHERE process_reference = $1
`

// Legacy "Make" schema: Portuguese column names, wider table. Only the
// fields both schemas share are mapped.
const legacyProcessQuery = `
SELECT referencia, id_importacao, numero_ce, numero_di, numero_duimp,
	data_embarque, previsao_chegada, data_desembaraco, situacao,
	atualizado_em
FROM processos_importacao
WHERE UPPER(referencia) = $1
`

// FindProcess returns the typed record for a reference, or nil when
// the store answers but has no such process. For PRIMARY the record is
// enriched with financial summary counts; enrichment failures degrade
// to zero counts rather than failing the find.
func (s *store) FindProcess(
	ctx context.Context,
	id db.DatabaseID,
	r ref.Ref,
) (*maike.ProcessRecord, error) {
	pool := s.operator.Pool(id)
	if pool == nil {
		return nil, SourceUnavailableError(id, errors.New("no connection"))
	}

	query := primaryProcessQuery
	source := maike.SourcePrimary
	if id == db.Legacy {
		query = legacyProcessQuery
		source = maike.SourceLegacy
	}

	row := pool.QueryRow(ctx, query, r.String())
	rec, err := scanProcess(row, source)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, QueryError(id, r.String(), err)
	}

	if id == db.Primary {
		s.enrichFinancials(ctx, rec)
	}

	return rec, nil
}

// scanProcess maps one row into a ProcessRecord. Both queries return
// the same column order.
func scanProcess(row pgx.Row, source string) (*maike.ProcessRecord, error) {
	var (
		reference  string
		internalID sql.NullString
		ceNum      sql.NullString
		diNum      sql.NullString
		duimpNum   sql.NullString
		shipped    sql.NullTime
		eta        sql.NullTime
		cleared    sql.NullTime
		status     sql.NullString
		updatedAt  sql.NullTime
	)

	err := row.Scan(&reference, &internalID, &ceNum, &diNum, &duimpNum,
		&shipped, &eta, &cleared, &status, &updatedAt)
	if err != nil {
		return nil, err
	}

	rec := &maike.ProcessRecord{
		Reference:        ref.Normalize(reference),
		InternalImportID: nullStr(internalID),
		CENumber:         nullStr(ceNum),
		DINumber:         nullStr(diNum),
		DuimpNumber:      nullStr(duimpNum),
		ShipmentDate:     nullTime(shipped),
		ETA:              nullTime(eta),
		ClearanceDate:    nullTime(cleared),
		Status:           status.String,
		Source:           source,
	}
	if updatedAt.Valid {
		rec.UpdatedAt = updatedAt.Time
	} else {
		rec.UpdatedAt = time.Now().UTC()
	}
	return rec, nil
}

const financialSummaryQuery = `
SELECT
	(SELECT COUNT(*) FROM declared_values WHERE process_reference = $1),
	(SELECT COALESCE(SUM(amount), 0) FROM declared_values
		WHERE process_reference = $1 AND value_kind = 'FOB'),
	(SELECT COALESCE(SUM(amount), 0) FROM declared_values
		WHERE process_reference = $1 AND value_kind = 'FREIGHT'),
	(SELECT COUNT(*) FROM import_taxes WHERE process_reference = $1),
	(SELECT COALESCE(SUM(amount_local_currency), 0) FROM import_taxes
		WHERE process_reference = $1),
	(SELECT COUNT(*) FROM linked_expenses WHERE process_reference = $1)
`

// enrichFinancials fills the summary counts and totals used by the
// resolver's completeness checks. Best-effort: a failure leaves the
// counts at zero.
func (s *store) enrichFinancials(
	ctx context.Context,
	rec *maike.ProcessRecord,
) {
	pool := s.operator.Pool(db.Primary)
	if pool == nil {
		return
	}

	var (
		valueCount, taxCount, expenseCount int
		fob, freight, taxes                float64
	)
	err := pool.QueryRow(ctx, financialSummaryQuery, rec.Reference).Scan(
		&valueCount, &fob, &freight, &taxCount, &taxes, &expenseCount,
	)
	if err != nil {
		slog.Warn("financial summary unavailable",
			"process_reference", rec.Reference, "error", err)
		return
	}

	rec.ValueCount = valueCount
	rec.TaxCount = taxCount
	rec.ExpenseCount = expenseCount
	if fob != 0 {
		rec.TotalFOB = &fob
	}
	if freight != 0 {
		rec.TotalFreight = &freight
	}
	if taxes != 0 {
		rec.TotalTaxes = &taxes
	}
}

const primaryListQuery = `
SELECT process_reference FROM import_processes
WHERE ($1 = '' OR process_reference LIKE $1 || '.%')
AND ($2 = '' OR process_reference LIKE '%/' || $2)
ORDER BY process_reference
`

const legacyListQuery = `
SELECT UPPER(referencia) FROM processos_importacao
WHERE ($1 = '' OR UPPER(referencia) LIKE $1 || '.%')
AND ($2 = '' OR UPPER(referencia) LIKE '%/' || $2)
ORDER BY referencia
`

// ListReferences lists process references in one store, optionally
// filtered by category code and two-digit year.
func (s *store) ListReferences(
	ctx context.Context,
	id db.DatabaseID,
	category, year string,
) ([]string, error) {
	pool := s.operator.Pool(id)
	if pool == nil {
		return nil, SourceUnavailableError(id, errors.New("no connection"))
	}

	query := primaryListQuery
	if id == db.Legacy {
		query = legacyListQuery
	}

	rows, err := pool.Query(ctx, query,
		ref.Normalize(category), ref.Normalize(year))
	if err != nil {
		return nil, QueryError(id, "list references", err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, QueryError(id, "list references", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError(id, "list references", err)
	}
	return res, nil
}

func nullStr(s sql.NullString) *string {
	if s.Valid && s.String != "" {
		v := s.String
		return &v
	}
	return nil
}

func nullTime(t sql.NullTime) *time.Time {
	if t.Valid {
		v := t.Time
		return &v
	}
	return nil
}
