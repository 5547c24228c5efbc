package db

import (
	"context"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DatabaseID names one of the logical databases the core talks to.
type DatabaseID string

const (
	// Primary is the canonical mAIke store. The only writable database.
	Primary DatabaseID = "primary"

	// Legacy is the old Make store, consulted read-only for backfill.
	Legacy DatabaseID = "legacy"

	// Declarations is the customs-declaration source database holding
	// DI/DUIMP detail tables.
	Declarations DatabaseID = "declarations"
)

// Operator defines the interface for connection management across the
// named logical databases. It exposes one pgxpool.Pool per database so
// high-level components (ProcessResolver, SnapshotAssembler,
// AutoHealWriter) can execute their specialized SQL internally.
//
// Design rationale:
// - Keeps interface minimal to avoid bloat with mixed semantics
// - Pool() enables components to use parameterized queries and
//   transactional upserts directly
// - Callers never see which physical host serves a logical database
type Operator interface {
	// Connect establishes connection pools to the configured databases.
	// A database that cannot be reached is left unconnected; its Pool()
	// returns nil and callers treat it as an unavailable source.
	Connect(ctx context.Context, cfg *config.Config) error

	// Close closes all connection pools.
	Close() error

	// Pool returns the pool for a logical database, or nil when that
	// database is not connected.
	Pool(id DatabaseID) *pgxpool.Pool

	// TableExists checks if a table exists in the given database.
	TableExists(ctx context.Context, id DatabaseID, tableName string) (bool, error)
}
