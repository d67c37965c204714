// Command gibberify translates text between natural languages and invented
// gibberish languages built from their syllables.
//
// Without a subcommand it translates (-f/-t/-m) or, when no languages are
// given, opens the interactive menu.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/heartmarshall/gibberify/internal/app"
	"github.com/heartmarshall/gibberify/internal/config"
)

// CLI is the command-line grammar.
type CLI struct {
	ConfigPath string `name:"config" short:"c" help:"Path to config.yaml (default: $GIBBERIFY_CONFIG or the data directory)." type:"path"`

	Translate   TranslateCmd   `cmd:"" default:"withargs" help:"Translate text, a file or stdin (default command)."`
	Interactive InteractiveCmd `cmd:"" aliases:"i" help:"Translate line by line in an interactive menu."`
	Build       BuildCmd       `cmd:"" help:"Download inputs and generate syllable pools and dictionaries."`
	Languages   LanguagesCmd   `cmd:"" help:"List configured languages and available dictionaries."`
	Config      ConfigCmd      `cmd:"" help:"Show, validate or edit the configuration."`
	Serve       ServeCmd       `cmd:"" help:"Serve the HTTP and websocket translation API."`
	Purge       PurgeCmd       `cmd:"" help:"Delete all generated data."`
	Version     VersionCmd     `cmd:"" help:"Print version information."`
}

// Globals is bound into every command's Run method.
type Globals struct {
	ConfigPath string
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer

	// Signals delivers interrupts. Commands either turn the first one into
	// context cancellation or, in the interactive menu, handle each one.
	Signals <-chan os.Signal
}

func main() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	g := &Globals{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr, Signals: sig}
	if err := run(os.Args[1:], g); err != nil {
		fmt.Fprintln(os.Stderr, "gibberify:", err)
		os.Exit(1)
	}
}

// run parses args and executes the selected command. extra options are
// appended to the parser configuration.
func run(args []string, g *Globals, extra ...kong.Option) error {
	var cli CLI
	opts := []kong.Option{
		kong.Name("gibberify"),
		kong.Description("Gibberish translator for invented languages."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(g.Stdout, g.Stderr),
	}
	opts = append(opts, extra...)

	parser, err := kong.New(&cli, opts...)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	g.ConfigPath = cli.ConfigPath
	return kctx.Run(g)
}

// Context returns a context canceled by the first interrupt.
func (g *Globals) Context() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-g.Signals:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// LoadConfig reads the application config and sets up logging to stderr.
func (g *Globals) LoadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, app.NewLogger(g.Stderr, cfg.Log), nil
}

// Open loads the config and wires the application.
func (g *Globals) Open(ctx context.Context) (*app.App, error) {
	cfg, log, err := g.LoadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, log)
}

// ensure builds missing dictionaries, telling the user first.
func (g *Globals) ensure(ctx context.Context, a *app.App) error {
	return a.EnsureDictionaries(ctx, func(missing []string) {
		fmt.Fprintf(g.Stderr, "%d dictionaries are missing, building them now. This may take a while.\n", len(missing))
	})
}
