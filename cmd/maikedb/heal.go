package main

import (
	"context"

	"github.com/gnames/gn"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/helenomaffra/maikedb/pkg/ref"
	"github.com/spf13/cobra"
)

var (
	healDocType string
)

func getHealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heal REFERENCE",
		Short: "Run the backfill writes for one process",
		Long: `Heal PRIMARY gaps for one process.

Runs the same idempotent writes per-request auto-heal uses: declared
values and tax lines are backfilled from the declaration sources when
missing, and document status fields are refreshed. Re-running a heal
with identical source data writes zero duplicate rows and zero change
events.

Examples:
  maikedb heal DMD.0090/25
  maikedb heal DMD.0090/25 --doc-type DUIMP`,
		Args: cobra.ExactArgs(1),
		RunE: runHeal,
	}

	cmd.Flags().StringVar(&healDocType, "doc-type", "",
		"limit status heal to one document type (DI, DUIMP or CE)")

	return cmd
}

func runHeal(_ *cobra.Command, args []string) error {
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

	types := []maike.DocumentType{
		maike.DocTypeDUIMP, maike.DocTypeDI, maike.DocTypeCE,
	}
	if healDocType != "" {
		dt, ok := maike.ParseDocumentType(healDocType)
		if !ok {
			gn.Warn("Unknown document type <em>%s</em>; use DI, DUIMP or CE",
				healDocType)
			return nil
		}
		types = []maike.DocumentType{dt}
	}

	if err := s.healer.HealValuesAndTaxes(ctx, r); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	for _, dt := range types {
		if err := s.healer.HealDocumentStatus(ctx, r, dt); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
	}

	gn.Info("Heal for <em>%s</em> is complete", r.String())
	return nil
}
