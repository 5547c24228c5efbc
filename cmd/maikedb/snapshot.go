package main

import (
	"context"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/helenomaffra/maikedb/pkg/ref"
	"github.com/spf13/cobra"
)

func getSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot REFERENCE",
		Short: "Show everything PRIMARY holds for a process",
		Long: `Assemble the read-only snapshot of one process from PRIMARY.

The snapshot aggregates the process row, linked customs documents,
declared values, tax lines and classified expenses. It reads PRIMARY
only: no legacy fallback, no external calls, no writes. A missing
process row is reported, not an error; that is the state auto-heal
exists to repair.

Example:
  maikedb snapshot DMD.0090/25`,
		Args: cobra.ExactArgs(1),
		RunE: runSnapshot,
	}

	return cmd
}

func runSnapshot(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	r, err := ref.Parse(args[0])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	s, err := newStack(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer s.Close()

	snap, err := s.assemble.Assemble(ctx, r)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	enc := gnfmt.GNjson{Pretty: true}
	out, err := enc.Encode(snap)
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	c := snap.Completeness
	if !c.HasProcess {
		gn.Warn("PRIMARY has no row for <em>%s</em>; run 'maikedb resolve' to heal it in",
			r.String())
		return nil
	}
	gn.Info("Process <em>%s</em>: %d documents, %d values, %d taxes, %d expenses",
		r.String(), docTotal(c.DocCounts), c.ValueCount, c.TaxCount,
		c.ExpenseCount)
	return nil
}

func docTotal(counts map[maike.DocumentType]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
