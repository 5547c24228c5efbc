package main

import (
	"context"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

var (
	noHeal bool
)

func getResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve REFERENCE",
		Short: "Find the most complete record for a process reference",
		Long: `Resolve a process reference across the data sources.

Sources are tried strictly in order: local cache, PRIMARY, LEGACY
(when the fallback is permitted), pipeline tool. The first source with
a complete answer wins; gaps found in PRIMARY are healed on the way
unless --no-heal is given.

The reference format is CATEGORY.NUMBER/YEAR and matching is
case-insensitive:

  maikedb resolve DMD.0090/25
  maikedb resolve dmd.0090/25 --no-heal`,
		Args: cobra.ExactArgs(1),
		RunE: runResolve,
	}

	cmd.Flags().BoolVar(&noHeal, "no-heal", false,
		"read-only resolution, skip auto-heal writes")

	return cmd
}

func runResolve(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	s, err := newStack(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer s.Close()

	rec, err := s.resolver.Resolve(ctx, args[0], !noHeal)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	enc := gnfmt.GNjson{Pretty: true}
	out, err := enc.Encode(rec)
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	gn.Info("Resolved <em>%s</em> from source <em>%s</em>",
		rec.Reference, rec.Source)
	return nil
}
