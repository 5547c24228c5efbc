// Package iobackfill runs the administrative bulk counterpart of
// per-request auto-heal: it walks the legacy process references and
// resolves each one with healing enabled, migrating whatever PRIMARY
// is missing.
package iobackfill

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"golang.org/x/sync/errgroup"
)

// Stats summarizes one backfill run.
type Stats struct {
	Total    int
	Resolved int
	Failed   int
}

// Backfiller walks legacy references through the resolver stack.
type Backfiller struct {
	store    maike.ProcessStore
	resolver maike.Resolver
	jobs     int

	// WithProgress shows a terminal progress bar. Off in tests and
	// scripted runs.
	WithProgress bool
}

// New creates a Backfiller with a bounded worker count.
func New(store maike.ProcessStore, resolver maike.Resolver, jobs int) *Backfiller {
	if jobs < 1 {
		jobs = 1
	}
	return &Backfiller{
		store:    store,
		resolver: resolver,
		jobs:     jobs,
	}
}

// Backfill resolves every legacy reference matching the optional
// category and two-digit year filters, with auto-heal on. Individual
// failures are counted, not fatal; the run only aborts on context
// cancellation.
func (b *Backfiller) Backfill(
	ctx context.Context,
	category, year string,
) (*Stats, error) {
	refs, err := b.store.ListReferences(ctx, db.Legacy, category, year)
	if err != nil {
		return nil, ListError(err)
	}

	stats := &Stats{Total: len(refs)}
	if len(refs) == 0 {
		slog.Info("no legacy references match the filters",
			"category", category, "year", year)
		return stats, nil
	}

	slog.Info("backfill starting",
		"references", humanize.Comma(int64(len(refs))),
		"jobs", b.jobs)

	var bar *pb.ProgressBar
	if b.WithProgress {
		bar = pb.Full.Start(len(refs))
		bar.Set("prefix", "Backfilling processes: ")
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	var resolved, failed atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.jobs)

	for _, reference := range refs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			_, err := b.resolver.Resolve(gCtx, reference, true)
			if err != nil {
				failed.Add(1)
				slog.Warn("backfill reference failed",
					"process_reference", reference, "error", err)
			} else {
				resolved.Add(1)
			}

			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.Resolved = int(resolved.Load())
	stats.Failed = int(failed.Load())

	slog.Info("backfill finished",
		"resolved", humanize.Comma(resolved.Load()),
		"failed", humanize.Comma(failed.Load()))

	if stats.Failed > 0 && stats.Resolved == 0 {
		return stats, AllFailedError(stats.Failed)
	}
	return stats, nil
}
