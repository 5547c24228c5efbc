// Package policy decides which logical database is primary versus
// legacy and whether the legacy fallback path is currently permitted.
//
// The policy is pure decision logic with one side channel: every time a
// caller actually exercises the legacy fallback it is recorded with
// structured context for later audit. The fallback flag is read once at
// process start from configuration; flipping it requires a restart.
package policy

import (
	"log/slog"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/helenomaffra/maikedb/pkg/db"
)

// maxLoggedQuery bounds the audit-logged query text.
const maxLoggedQuery = 120

// Policy answers "which database is primary?" and "is legacy fallback
// allowed?". Immutable after construction; safe for concurrent use.
type Policy struct {
	primary        db.DatabaseID
	legacy         db.DatabaseID
	legacyFallback bool
	log            *slog.Logger
}

// New builds a Policy from process-wide configuration. The fallback
// flag is captured here and never re-read.
func New(cfg *config.Config, log *slog.Logger) *Policy {
	if log == nil {
		log = slog.Default()
	}
	return &Policy{
		primary:        db.Primary,
		legacy:         db.Legacy,
		legacyFallback: cfg.LegacyFallback,
		log:            log,
	}
}

// Primary returns the canonical database. Constant for the process
// lifetime.
func (p *Policy) Primary() db.DatabaseID {
	return p.primary
}

// Legacy returns the legacy database. Constant for the process
// lifetime.
func (p *Policy) Legacy() db.DatabaseID {
	return p.legacy
}

// LegacyFallbackAllowed reports whether callers may consult the legacy
// database when the primary lacks a record.
func (p *Policy) LegacyFallbackAllowed() bool {
	return p.legacyFallback
}

// LogFallback records one exercised legacy fallback with structured
// context. Side-effect only; never fails the caller's operation.
func (p *Policy) LogFallback(processRef, caller, reason, query string) {
	if len(query) > maxLoggedQuery {
		query = query[:maxLoggedQuery] + "…"
	}
	p.log.Warn("legacy fallback exercised",
		"process_reference", processRef,
		"caller", caller,
		"reason", reason,
		"query", query,
	)
}
