// Package iodb implements database operations using pgxpool.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxOperator implements db.Operator with one pgxpool per logical
// database.
type pgxOperator struct {
	pools map[db.DatabaseID]*pgxpool.Pool
}

// NewPgxOperator creates a new database operator (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{
		pools: make(map[db.DatabaseID]*pgxpool.Pool),
	}
}

// Connect establishes connection pools to the configured logical
// databases. PRIMARY must be reachable; LEGACY and DECLARATIONS are
// optional sources - when one of them is unreachable it is logged and
// left unconnected, and callers treat it as an unavailable source.
// This keeps the tool usable off-VPN where only a subset of hosts
// answers.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.Config,
) error {
	pool, err := connectOne(ctx, &cfg.Primary)
	if err != nil {
		return ConnectionError(db.Primary, cfg.Primary.Host,
			cfg.Primary.Port, cfg.Primary.Database, err)
	}
	p.pools[db.Primary] = pool

	optional := map[db.DatabaseID]*config.DatabaseConfig{
		db.Legacy:       &cfg.Legacy,
		db.Declarations: &cfg.Declarations,
	}
	for id, dbCfg := range optional {
		pool, err := connectOne(ctx, dbCfg)
		if err != nil {
			slog.Warn("optional database unreachable",
				"database", id,
				"host", dbCfg.Host,
				"error", err,
			)
			continue
		}
		p.pools[id] = pool
	}

	return nil
}

func connectOne(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	// Hardcoded pool settings (can be made configurable
	// later if needed)
	poolConfig.MaxConns = 10       // Max connections
	poolConfig.MinConns = 2        // Keep 2 connections warm
	poolConfig.MaxConnLifetime = 0 // No lifetime limit
	poolConfig.MaxConnIdleTime = 0 // No idle timeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	for _, pool := range p.pools {
		pool.Close()
	}
	p.pools = make(map[db.DatabaseID]*pgxpool.Pool)
	return nil
}

// Pool returns the pool for a logical database, or nil when that
// database is not connected.
func (p *pgxOperator) Pool(id db.DatabaseID) *pgxpool.Pool {
	return p.pools[id]
}

// TableExists checks if a table exists in the given database.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	id db.DatabaseID,
	tableName string,
) (bool, error) {
	pool := p.pools[id]
	if pool == nil {
		return false, NotConnectedError(id)
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableCheckError(id, tableName, err)
	}

	return exists, nil
}
