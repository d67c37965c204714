package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/heartmarshall/gibberify/internal/app/builder"
)

// BuildCmd runs the generation pipeline.
type BuildCmd struct {
	ForceDownload  bool `help:"Re-download every input, then rebuild pools and dictionaries."`
	ForceSyllables bool `help:"Regenerate syllable pools locally from word lists."`
	RebuildDicts   bool `help:"Rebuild dictionaries even when their settings did not change."`
	FromRaw        bool `help:"Build word lists from raw hunspell dictionaries instead of pregenerated data."`
}

func (c *BuildCmd) Run(g *Globals) error {
	ctx, cancel := g.Context()
	defer cancel()

	a, err := g.Open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.Build(ctx, builder.Options{
		ForceDownload:  c.ForceDownload,
		ForceSyllables: c.ForceSyllables,
		RebuildDicts:   c.RebuildDicts,
		FromRaw:        c.FromRaw,
	})

	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "PHASE\tBUILT\tSKIPPED\tDURATION\n")
	for _, name := range []string{builder.PhasePatterns, builder.PhaseSyllables, builder.PhaseDicts} {
		res, ok := summary.Phases[name]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", name, res.Built, res.Skipped, res.Duration.Round(time.Millisecond))
	}
	if ferr := tw.Flush(); err == nil {
		err = ferr
	}
	return err
}
