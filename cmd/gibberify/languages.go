package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/heartmarshall/gibberify/internal/domain"
)

// LanguagesCmd prints the language configuration and the stored pairs.
type LanguagesCmd struct{}

func (c *LanguagesCmd) Run(g *Globals) error {
	ctx := context.Background()

	a, err := g.Open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	stored, err := a.Repo.ListDictionaries(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "CODE\tLANGUAGE\tKIND\tPOOL\tDICTIONARIES\n")
	for _, code := range a.Languages.RealLangs {
		fmt.Fprintf(tw, "%s\t%s\tnatural\t-\t%s\n", code, domain.LangName(code), pairsOf(code, stored))
	}
	for _, code := range a.Languages.GibCodes() {
		s := a.Languages.GibLangs[code]
		fmt.Fprintf(tw, "%s\t%s\tinvented\t%s\t%s\n",
			code, domain.LangName(code), strings.Join(s.Pool, ","), pairsOf(code, stored))
	}
	return tw.Flush()
}

// pairsOf lists the stored output languages of code, or "-" when none.
func pairsOf(code string, stored []string) string {
	var outs []string
	for _, key := range stored {
		if in, out, ok := domain.SplitPairKey(key); ok && in == code {
			outs = append(outs, out)
		}
	}
	if len(outs) == 0 {
		return "-"
	}
	slices.Sort(outs)
	return "-> " + strings.Join(outs, ",")
}
