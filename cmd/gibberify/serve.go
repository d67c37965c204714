package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/heartmarshall/gibberify/internal/app"
)

// ServeCmd runs the HTTP server.
type ServeCmd struct{}

func (c *ServeCmd) Run(g *Globals) error {
	ctx, cancel := g.Context()
	defer cancel()

	a, err := g.Open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := g.ensure(ctx, a); err != nil {
		return err
	}
	return a.Serve(ctx)
}

// PurgeCmd deletes every generated artifact.
type PurgeCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *PurgeCmd) Run(g *Globals) error {
	ctx, cancel := g.Context()
	defer cancel()

	a, err := g.Open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !c.Yes {
		fmt.Fprintf(g.Stdout, "Delete all generated data (%s backend)? [y/N] ", a.Config.Data.Backend)
		answer, _ := bufio.NewReader(g.Stdin).ReadString('\n')
		if ans := strings.ToLower(strings.TrimSpace(answer)); ans != "y" && ans != "yes" {
			_, err := fmt.Fprintln(g.Stdout, "aborted")
			return err
		}
	}

	n, err := a.Purge(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(g.Stdout, "deleted %d artifacts\n", n)
	return err
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	_, err := fmt.Fprintf(g.Stdout, "gibberify %s (data format %s)\n", app.BuildVersion(), app.DataVersion())
	return err
}
