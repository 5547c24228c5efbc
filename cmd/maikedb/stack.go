package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/helenomaffra/maikedb/internal/iocache"
	"github.com/helenomaffra/maikedb/internal/iodb"
	"github.com/helenomaffra/maikedb/internal/iodeclare"
	"github.com/helenomaffra/maikedb/internal/ioheal"
	"github.com/helenomaffra/maikedb/internal/iokanban"
	"github.com/helenomaffra/maikedb/internal/ioresolve"
	"github.com/helenomaffra/maikedb/internal/iosnapshot"
	"github.com/helenomaffra/maikedb/internal/iostore"
	pkgconfig "github.com/helenomaffra/maikedb/pkg/config"
	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/helenomaffra/maikedb/pkg/policy"
)

// stack wires the full resolution engine for one command invocation.
type stack struct {
	operator db.Operator
	cache    maike.ProcessCache
	store    maike.ProcessStore
	assemble maike.Assembler
	healer   maike.Healer
	resolver maike.Resolver
}

// newStack connects to the databases, opens the process cache and
// builds the resolver with its collaborators.
func newStack(ctx context.Context, cfg *pkgconfig.Config) (*stack, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, cfg); err != nil {
		return nil, err
	}

	cacheDir := pkgconfig.CacheDir(cfg.HomeDir)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		op.Close()
		return nil, err
	}
	cache, err := iocache.New(pkgconfig.CacheFilePath(cfg.HomeDir))
	if err != nil {
		op.Close()
		return nil, err
	}

	store := iostore.New(op)
	assemble := iosnapshot.New(op)
	decl := iodeclare.New(&cfg.Declaration)
	kanban := iokanban.New(&cfg.Kanban)
	healer := ioheal.New(op, decl, assemble)
	pol := policy.New(cfg, slog.Default())
	resolver := ioresolve.New(cfg, cache, store, kanban, healer, pol)

	return &stack{
		operator: op,
		cache:    cache,
		store:    store,
		assemble: assemble,
		healer:   healer,
		resolver: resolver,
	}, nil
}

// Close releases the cache and every database pool.
func (s *stack) Close() {
	if err := s.cache.Close(); err != nil {
		slog.Warn("cache close failed", "error", err)
	}
	if err := s.operator.Close(); err != nil {
		slog.Warn("database close failed", "error", err)
	}
}
