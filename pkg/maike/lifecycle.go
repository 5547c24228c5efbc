package maike

import (
	"context"

	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/ref"
)

// Resolver is the single entry point for process resolution. Sources
// are tried strictly in the order cache → PRIMARY → LEGACY → pipeline
// API, never concurrently within one call. A transport failure against
// one source is logged and the next source is tried; only exhausting
// every source surfaces NotFound.
type Resolver interface {
	// Resolve returns the most complete record practically available
	// for a raw process reference. When autoHeal is true, gaps found in
	// PRIMARY trigger best-effort backfill writes before returning.
	Resolve(ctx context.Context, rawRef string, autoHeal bool) (*ProcessRecord, error)
}

// Assembler builds a read-only Snapshot of one process from PRIMARY
// only. Pure read: no writes, no external calls. A failing sub-entity
// query degrades that collection to empty rather than aborting the
// assembly.
type Assembler interface {
	Assemble(ctx context.Context, r ref.Ref) (*Snapshot, error)
}

// Healer is the family of idempotent natural-key upserts that backfill
// PRIMARY from LEGACY or external APIs. Re-running any operation with
// identical source data writes zero duplicate rows and zero additional
// change events.
type Healer interface {
	// MigrateProcess upserts a legacy-sourced record into PRIMARY,
	// mapping only fields both schemas share. Returns false without
	// error when the target table does not exist yet.
	MigrateProcess(ctx context.Context, rec *ProcessRecord) (bool, error)

	// HealValuesAndTaxes backfills declared values and tax lines for a
	// process whose snapshot shows them missing while a DI or DUIMP is
	// linked.
	HealValuesAndTaxes(ctx context.Context, r ref.Ref) error

	// HealDocumentStatus refreshes empty status/channel fields of a
	// linked document from the legacy declaration tables, preferring a
	// pipeline-tool-sourced status when both exist.
	HealDocumentStatus(ctx context.Context, r ref.Ref, dt DocumentType) error

	// HealFromAPI is the last-resort path querying the live government
	// API for a document neither PRIMARY nor LEGACY has.
	HealFromAPI(ctx context.Context, number string, dt DocumentType) error

	// HealKanbanStatus writes the pipeline tool's stage onto the
	// documents linked to a process, marking them pipeline-sourced so
	// legacy reads only fill what the pipeline does not carry.
	HealKanbanStatus(ctx context.Context, r ref.Ref, rec *ProcessRecord) error
}

// ProcessCache is the fast local store keyed by uppercase-normalized
// process reference. Cache failures degrade to a miss; they never fail
// resolution.
type ProcessCache interface {
	// Get returns the cached record or nil on miss.
	Get(ctx context.Context, key string) (*ProcessRecord, error)

	// Put stores a record under its normalized reference.
	Put(ctx context.Context, rec *ProcessRecord) error

	// Delete removes one entry. Used by maintenance commands.
	Delete(ctx context.Context, key string) error

	Close() error
}

// ProcessStore finds process rows in one of the SQL stores. The
// mapping from raw rows to ProcessRecord happens immediately at this
// boundary; callers never see untyped rows.
type ProcessStore interface {
	// FindProcess returns nil without error when the store answers but
	// has no such process.
	FindProcess(ctx context.Context, id db.DatabaseID, r ref.Ref) (*ProcessRecord, error)

	// ListReferences lists process references present in the given
	// store, optionally filtered by category and two-digit year. Used
	// by the backfill command.
	ListReferences(ctx context.Context, id db.DatabaseID, category, year string) ([]string, error)
}

// KanbanClient talks to the operational pipeline tool.
type KanbanClient interface {
	// FindProcess returns the tracking-enriched record for a
	// reference, or nil when the pipeline tool does not know it.
	FindProcess(ctx context.Context, r ref.Ref) (*ProcessRecord, error)
}

// DeclarationClient talks to the government declaration API.
type DeclarationClient interface {
	DocumentStatus(ctx context.Context, number string, dt DocumentType) (*DocumentStatus, error)
	DuimpValues(ctx context.Context, number string) ([]DeclaredAmount, error)
	DuimpTaxes(ctx context.Context, number string) ([]TaxAmount, error)
}

// SchemaManager manages the PRIMARY schema. Idempotent - safe to run
// multiple times.
type SchemaManager interface {
	// Create creates the schema via GORM AutoMigrate and applies the
	// natural-key indexes.
	Create(ctx context.Context) error

	// Migrate updates the schema to the latest version.
	Migrate(ctx context.Context) error
}
