package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"os/exec"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/gibberify/internal/config"
)

// ConfigCmd groups the configuration subcommands.
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" help:"Print the effective configuration."`
	Validate ConfigValidateCmd `cmd:"" help:"Check the application and language configuration."`
	Edit     ConfigEditCmd     `cmd:"" help:"Open languages.yaml in $EDITOR and validate the result."`
}

// ConfigShowCmd prints the effective configuration as YAML.
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(g *Globals) error {
	cfg, _, err := g.LoadConfig()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages(cfg.Data.LanguagesPath())
	if err != nil {
		return err
	}

	shown := *cfg
	shown.Database.DSN = redactDSN(cfg.Database.DSN)

	enc := yaml.NewEncoder(g.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(shown); err != nil {
		return err
	}
	fmt.Fprintf(g.Stdout, "---\n# %s\n", cfg.Data.LanguagesPath())
	if err := enc.Encode(langs); err != nil {
		return err
	}
	return enc.Close()
}

// redactDSN hides the password of a postgres URL.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}

// ConfigValidateCmd loads and validates both configuration files.
type ConfigValidateCmd struct{}

func (c *ConfigValidateCmd) Run(g *Globals) error {
	cfg, _, err := g.LoadConfig()
	if err != nil {
		return err
	}
	if _, err := config.LoadLanguages(cfg.Data.LanguagesPath()); err != nil {
		return err
	}
	_, err = fmt.Fprintln(g.Stdout, "configuration is valid")
	return err
}

// ConfigEditCmd edits the language configuration.
type ConfigEditCmd struct {
	Editor string `help:"Editor command." env:"VISUAL,EDITOR" default:"vi"`
}

func (c *ConfigEditCmd) Run(g *Globals) error {
	cfg, _, err := g.LoadConfig()
	if err != nil {
		return err
	}
	path := cfg.Data.LanguagesPath()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := config.DefaultLanguages().Write(path); err != nil {
			return err
		}
	}

	cmd := exec.Command(c.Editor, path)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = g.Stdin, g.Stdout, g.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run editor %s: %w", c.Editor, err)
	}

	if _, err := config.LoadLanguages(path); err != nil {
		return fmt.Errorf("edited file is invalid: %w", err)
	}
	_, err = fmt.Fprintf(g.Stdout, "%s is valid; run \"gibberify build\" to apply it\n", path)
	return err
}
