// Package iocache implements the local process cache on top of a
// SQLite file. This is an impure I/O package implementing the
// maike.ProcessCache contract.
//
// The cache is a convenience layer, never a source of truth: every
// failure short of a corrupted open degrades to a miss so that
// resolution falls through to the SQL stores.
package iocache

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/helenomaffra/maikedb/pkg/ref"
	_ "modernc.org/sqlite" // SQLite driver
)

const createTable = `
CREATE TABLE IF NOT EXISTS processes (
	reference TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	updated_at TEXT NOT NULL
)
`

type cache struct {
	db *sql.DB
}

// New opens (creating if needed) the cache database at path and
// returns a maike.ProcessCache.
func New(path string) (maike.ProcessCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, OpenError(path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError(path, err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}

	return &cache{db: db}, nil
}

// Get returns the cached record for an uppercase-normalized reference,
// or nil on miss. Read failures are logged and reported as a miss.
func (c *cache) Get(
	ctx context.Context,
	key string,
) (*maike.ProcessRecord, error) {
	key = ref.Normalize(key)

	var payload []byte
	err := c.db.QueryRowContext(ctx,
		"SELECT payload FROM processes WHERE reference = ?", key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("cache read failed, treating as miss",
			"reference", key, "error", err)
		return nil, nil
	}

	enc := gnfmt.GNjson{}
	var rec maike.ProcessRecord
	if err := enc.Decode(payload, &rec); err != nil {
		// A payload written by an older version is a miss, not an
		// error.
		slog.Warn("cache payload undecodable, treating as miss",
			"reference", key, "error", err)
		return nil, nil
	}

	return &rec, nil
}

// Put stores a record under its normalized reference, overwriting any
// previous entry.
func (c *cache) Put(ctx context.Context, rec *maike.ProcessRecord) error {
	if rec == nil || rec.Reference == "" {
		return WriteError("", errors.New("record without reference"))
	}
	key := ref.Normalize(rec.Reference)

	enc := gnfmt.GNjson{}
	payload, err := enc.Encode(rec)
	if err != nil {
		return WriteError(key, err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO processes (reference, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (reference) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		key, payload, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return WriteError(key, err)
	}
	return nil
}

// Delete removes one entry; deleting a missing key is not an error.
func (c *cache) Delete(ctx context.Context, key string) error {
	key = ref.Normalize(key)
	_, err := c.db.ExecContext(ctx,
		"DELETE FROM processes WHERE reference = ?", key)
	if err != nil {
		return WriteError(key, err)
	}
	return nil
}

// Close closes the underlying SQLite handle.
func (c *cache) Close() error {
	return c.db.Close()
}
