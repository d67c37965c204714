package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/heartmarshall/gibberify/internal/app/repl"
)

// TranslateCmd translates one message.
type TranslateCmd struct {
	From    string `short:"f" help:"Input language code."`
	To      string `short:"t" help:"Output language code."`
	Message string `short:"m" help:"Text to translate, a file path, or - for stdin."`
}

func (c *TranslateCmd) Run(g *Globals) error {
	if c.From == "" && c.To == "" && c.Message == "" {
		return (&InteractiveCmd{}).Run(g)
	}
	if c.From == "" || c.To == "" {
		return fmt.Errorf("both --from and --to are required")
	}

	text, err := readMessage(c.Message, g.Stdin)
	if err != nil {
		return err
	}

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
	svc, err := a.Translator(ctx)
	if err != nil {
		return err
	}
	out, err := svc.Translate(ctx, c.From, c.To, text)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(g.Stdout, out)
	return err
}

// readMessage resolves -m: "-" reads stdin, an existing regular file is read
// whole, anything else is the text itself.
func readMessage(msg string, stdin io.Reader) (string, error) {
	switch {
	case msg == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSuffix(string(b), "\n"), nil
	case msg == "":
		return "", nil
	}
	if fi, err := os.Stat(msg); err == nil && fi.Mode().IsRegular() {
		b, err := os.ReadFile(msg)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", msg, err)
		}
		return strings.TrimSuffix(string(b), "\n"), nil
	}
	return msg, nil
}

// InteractiveCmd runs the interactive menu.
type InteractiveCmd struct{}

func (c *InteractiveCmd) Run(g *Globals) error {
	ctx := context.Background()

	a, err := g.Open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := g.ensure(ctx, a); err != nil {
		return err
	}
	svc, err := a.Translator(ctx)
	if err != nil {
		return err
	}
	return repl.New(svc, g.Stdin, g.Stdout, g.Signals).Run(ctx)
}
