// Package ioheal implements the auto-heal writer: idempotent
// natural-key upserts that backfill PRIMARY from LEGACY or the
// external declaration sources. This is an impure I/O package
// implementing the maike.Healer contract.
//
// Every write path shares two rules. First, upserts key on the natural
// key, so re-running a heal with identical source data writes zero
// duplicate rows. Second, a populated PRIMARY field is never
// overwritten with an empty value; heals only fill gaps or replace one
// real value with another.
package ioheal

import (
	"context"
	"log/slog"

	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/maike"
)

type healer struct {
	operator db.Operator
	decl     maike.DeclarationClient
	assemble maike.Assembler
}

// New creates a Healer writing to PRIMARY through the pgx operator.
// The declaration client is the last-resort source; the assembler
// supplies the completeness view that decides what to heal.
func New(
	op db.Operator,
	decl maike.DeclarationClient,
	asm maike.Assembler,
) maike.Healer {
	return &healer{operator: op, decl: decl, assemble: asm}
}

const migrateProcessQuery = `
INSERT INTO import_processes
	(process_reference, internal_import_id, ce_number, di_number,
	duimp_number, shipment_date, expected_arrival_date,
	customs_clearance_date, status, source_system, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
ON CONFLICT (process_reference) DO UPDATE SET
	internal_import_id = COALESCE(EXCLUDED.internal_import_id,
		import_processes.internal_import_id),
	ce_number = COALESCE(EXCLUDED.ce_number, import_processes.ce_number),
	di_number = COALESCE(EXCLUDED.di_number, import_processes.di_number),
	duimp_number = COALESCE(EXCLUDED.duimp_number,
		import_processes.duimp_number),
	shipment_date = COALESCE(EXCLUDED.shipment_date,
		import_processes.shipment_date),
	expected_arrival_date = COALESCE(EXCLUDED.expected_arrival_date,
		import_processes.expected_arrival_date),
	customs_clearance_date = COALESCE(EXCLUDED.customs_clearance_date,
		import_processes.customs_clearance_date),
	status = COALESCE(NULLIF(EXCLUDED.status, ''),
		import_processes.status),
	source_system = EXCLUDED.source_system,
	updated_at = NOW()
`

// MigrateProcess upserts a legacy-sourced record into PRIMARY, mapping
// only the fields both schemas share. Absent source fields never blank
// out populated PRIMARY columns. Returns false without error when the
// target table does not exist yet; the caller falls back to serving
// the legacy record directly.
func (h *healer) MigrateProcess(
	ctx context.Context,
	rec *maike.ProcessRecord,
) (bool, error) {
	exists, err := h.operator.TableExists(ctx, db.Primary, "import_processes")
	if err != nil {
		return false, SourceReadError("primary schema check", err)
	}
	if !exists {
		slog.Warn("primary schema not created yet, skipping migration",
			"process_reference", rec.Reference)
		return false, nil
	}

	pool := h.operator.Pool(db.Primary)
	if pool == nil {
		return false, SourceReadError("primary database",
			errNotConnected(db.Primary))
	}

	_, err = pool.Exec(ctx, migrateProcessQuery,
		rec.Reference, rec.InternalImportID, rec.CENumber, rec.DINumber,
		rec.DuimpNumber, rec.ShipmentDate, rec.ETA, rec.ClearanceDate,
		rec.Status, rec.Source,
	)
	if err != nil {
		return false, UpsertError("import_processes", rec.Reference, err)
	}

	slog.Info("process migrated to primary",
		"process_reference", rec.Reference, "source", rec.Source)
	return true, nil
}
