// Package ioresolve implements process resolution across the data
// sources. This is an impure I/O package implementing the
// maike.Resolver contract.
//
// Sources are consulted strictly in order: cache, PRIMARY, LEGACY,
// pipeline tool. Never concurrently within one call; a cheap source
// that answers completely spares every source behind it. The one
// exception is a cache hit with stale tracking, which re-fetches from
// the pipeline tool before the SQL stores are considered. A source
// that fails to answer (transport error, missing connection) is logged
// and skipped; only exhausting all sources yields NotFound.
package ioresolve

import (
	"context"
	"log/slog"
	"time"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/helenomaffra/maikedb/pkg/policy"
	"github.com/helenomaffra/maikedb/pkg/ref"
)

type resolver struct {
	cache   maike.ProcessCache
	store   maike.ProcessStore
	kanban  maike.KanbanClient
	healer  maike.Healer
	pol     *policy.Policy
	timeout time.Duration
}

// New creates a Resolver. The per-source timeout comes from
// configuration so one slow source cannot stall the whole chain.
func New(
	cfg *config.Config,
	cache maike.ProcessCache,
	store maike.ProcessStore,
	kanban maike.KanbanClient,
	healer maike.Healer,
	pol *policy.Policy,
) maike.Resolver {
	timeout := cfg.QueryTimeout()
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &resolver{
		cache:   cache,
		store:   store,
		kanban:  kanban,
		healer:  healer,
		pol:     pol,
		timeout: timeout,
	}
}

// Resolve returns the most complete record practically available for a
// raw process reference.
func (rs *resolver) Resolve(
	ctx context.Context,
	rawRef string,
	autoHeal bool,
) (*maike.ProcessRecord, error) {
	r, err := ref.Parse(rawRef)
	if err != nil {
		return nil, err
	}

	var tried []string

	// 1. Cache. Failures inside the cache already degrade to a miss.
	// Stale tracking on a hit is refreshed from the pipeline tool
	// before anything else is consulted.
	cached := rs.fromCache(ctx, r)
	tried = append(tried, maike.SourceCache)
	if cached != nil && !cached.TrackingComplete() {
		cached = rs.refreshTracking(ctx, r, cached, autoHeal)
	}
	if cached != nil && cached.TrackingComplete() && cached.HasDocuments() {
		return rs.serveCached(ctx, r, cached), nil
	}

	// 2. PRIMARY. An incomplete cache entry is kept for merging.
	rec, ok := rs.fromStore(ctx, rs.pol.Primary(), r)
	tried = append(tried, maike.SourcePrimary)
	if ok && rec != nil {
		res := maike.Merge(cached, rec)
		if autoHeal {
			res = rs.healPrimaryGaps(ctx, r, res)
		}
		rs.cachePut(ctx, res)
		return res, nil
	}

	// 3. LEGACY, only when policy permits.
	if rs.pol.LegacyFallbackAllowed() {
		legacyID := rs.pol.Legacy()
		rs.pol.LogFallback(r.String(), "resolver",
			"primary store has no record",
			"FindProcess "+string(legacyID))

		rec, ok = rs.fromStore(ctx, legacyID, r)
		tried = append(tried, maike.SourceLegacy)
		if ok && rec != nil {
			res := rs.serveLegacy(ctx, r, cached, rec, autoHeal)
			rs.cachePut(ctx, res)
			return res, nil
		}
	}

	// 4. Pipeline tool, the last source.
	kan := rs.fromKanban(ctx, r)
	tried = append(tried, maike.SourceKanban)
	if kan != nil {
		res := maike.Merge(kan, nil)
		if cached != nil {
			res = maike.Merge(kan, cached)
			res.Source = maike.SourceKanban
		}
		if autoHeal {
			rs.persistKanbanStatus(ctx, r, kan)
		}
		rs.cachePut(ctx, res)
		return res, nil
	}

	// An incomplete cache entry still beats nothing.
	if cached != nil {
		slog.Info("serving incomplete cache entry, no source had more",
			"process_reference", r.String())
		return cached, nil
	}

	return nil, NotFoundError(r.String(), tried)
}

// serveCached completes a tracking-complete cache hit. When the entry
// lacks financial summary data a best-effort PRIMARY read fills it in,
// with LEGACY as the policy-gated fallback; when neither store has the
// row the entry is served as-is.
func (rs *resolver) serveCached(
	ctx context.Context,
	r ref.Ref,
	cached *maike.ProcessRecord,
) *maike.ProcessRecord {
	if cached.HasFinancials() {
		return cached
	}

	rec, ok := rs.fromStore(ctx, rs.pol.Primary(), r)
	if (!ok || rec == nil) && rs.pol.LegacyFallbackAllowed() {
		rs.pol.LogFallback(r.String(), "resolver",
			"financial enrichment missed PRIMARY",
			"FindProcess "+string(rs.pol.Legacy()))
		rec, ok = rs.fromStore(ctx, rs.pol.Legacy(), r)
	}
	if !ok || rec == nil {
		return cached
	}

	res := maike.Merge(cached, rec)
	rs.cachePut(ctx, res)
	return res
}

// refreshTracking re-fetches tracking data from the pipeline tool for
// a cache hit whose tracking fields are incomplete, and writes the
// richer entry back to the cache. Best effort: a pipeline failure
// keeps the stale entry.
func (rs *resolver) refreshTracking(
	ctx context.Context,
	r ref.Ref,
	cached *maike.ProcessRecord,
	autoHeal bool,
) *maike.ProcessRecord {
	kan := rs.fromKanban(ctx, r)
	if kan == nil {
		return cached
	}

	res := maike.Merge(kan, cached)
	res.Source = cached.Source
	if autoHeal {
		rs.persistKanbanStatus(ctx, r, kan)
	}
	rs.cachePut(ctx, res)
	return res
}

// persistKanbanStatus stores the pipeline stage on the linked
// documents. Never fatal to the resolution.
func (rs *resolver) persistKanbanStatus(
	ctx context.Context,
	r ref.Ref,
	kan *maike.ProcessRecord,
) {
	if err := rs.healer.HealKanbanStatus(ctx, r, kan); err != nil {
		slog.Warn("pipeline status persist failed",
			"process_reference", r.String(), "error", err)
	}
}

// serveLegacy handles a legacy hit: with autoHeal on, the record is
// migrated into PRIMARY and the migrated row is re-read so the caller
// sees what PRIMARY now holds. When the migration cannot run (schema
// not created yet) the legacy record itself is served.
func (rs *resolver) serveLegacy(
	ctx context.Context,
	r ref.Ref,
	cached, rec *maike.ProcessRecord,
	autoHeal bool,
) *maike.ProcessRecord {
	if !autoHeal {
		return maike.Merge(cached, rec)
	}

	migrated, err := rs.healer.MigrateProcess(ctx, rec)
	if err != nil {
		slog.Warn("legacy record migration failed",
			"process_reference", r.String(), "error", err)
		return maike.Merge(cached, rec)
	}
	if !migrated {
		return maike.Merge(cached, rec)
	}

	fresh, ok := rs.fromStore(ctx, rs.pol.Primary(), r)
	if ok && fresh != nil {
		return maike.Merge(cached, fresh)
	}
	return maike.Merge(cached, rec)
}

// healPrimaryGaps runs the backfill heals a PRIMARY hit calls for:
// missing values and taxes while a declaration is linked. The record
// is re-read afterwards so the caller sees the healed state. Heal
// failures never fail the resolution.
func (rs *resolver) healPrimaryGaps(
	ctx context.Context,
	r ref.Ref,
	rec *maike.ProcessRecord,
) *maike.ProcessRecord {
	needsValues := (rec.ValueCount == 0 || rec.TaxCount == 0) &&
		(strDeref(rec.DINumber) != "" || strDeref(rec.DuimpNumber) != "")
	if !needsValues {
		return rec
	}

	if err := rs.healer.HealValuesAndTaxes(ctx, r); err != nil {
		slog.Warn("value heal failed during resolution",
			"process_reference", r.String(), "error", err)
		return rec
	}

	fresh, ok := rs.fromStore(ctx, rs.pol.Primary(), r)
	if !ok || fresh == nil {
		return rec
	}
	fresh.Port = rec.Port
	fresh.VesselName = rec.VesselName
	fresh.CarrierStatus = rec.CarrierStatus
	fresh.KanbanStage = rec.KanbanStage
	fresh.Modal = rec.Modal
	if fresh.ETA == nil {
		fresh.ETA = rec.ETA
	}
	fresh.Source = rec.Source
	return fresh
}

func (rs *resolver) fromCache(
	ctx context.Context,
	r ref.Ref,
) *maike.ProcessRecord {
	ctx, cancel := context.WithTimeout(ctx, rs.timeout)
	defer cancel()

	rec, err := rs.cache.Get(ctx, r.String())
	if err != nil {
		slog.Warn("cache read failed, treating as miss",
			"process_reference", r.String(), "error", err)
		return nil
	}
	return rec
}

// fromStore queries one SQL store. The second return is false when the
// store could not answer; a store that answers "no such process"
// returns (nil, true).
func (rs *resolver) fromStore(
	ctx context.Context,
	id db.DatabaseID,
	r ref.Ref,
) (*maike.ProcessRecord, bool) {
	ctx, cancel := context.WithTimeout(ctx, rs.timeout)
	defer cancel()

	rec, err := rs.store.FindProcess(ctx, id, r)
	if err != nil {
		slog.Warn("store unavailable, trying next source",
			"database", id, "process_reference", r.String(),
			"error", err)
		return nil, false
	}
	return rec, true
}

func (rs *resolver) fromKanban(
	ctx context.Context,
	r ref.Ref,
) *maike.ProcessRecord {
	ctx, cancel := context.WithTimeout(ctx, rs.timeout)
	defer cancel()

	rec, err := rs.kanban.FindProcess(ctx, r)
	if err != nil {
		slog.Warn("pipeline tool unavailable, skipping",
			"process_reference", r.String(), "error", err)
		return nil
	}
	return rec
}

func (rs *resolver) cachePut(ctx context.Context, rec *maike.ProcessRecord) {
	if rec == nil {
		return
	}
	if err := rs.cache.Put(ctx, rec); err != nil {
		slog.Warn("cache write failed",
			"process_reference", rec.Reference, "error", err)
	}
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
