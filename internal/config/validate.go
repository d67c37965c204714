package config

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/gibberify/internal/domain"
	"github.com/heartmarshall/gibberify/internal/hyphen"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if !domain.Backend(c.Data.Backend).IsValid() {
		return fmt.Errorf("data.backend must be one of fs, sqlite, badger, postgres (got %q)", c.Data.Backend)
	}
	if c.Data.Backend == string(domain.BackendPostgres) && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for the postgres backend")
	}

	if err := c.Download.validate(); err != nil {
		return fmt.Errorf("download: %w", err)
	}
	if err := c.Build.validate(); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be >= 0 (got %d)", c.Server.RateLimit)
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error, off (got %q)", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json (got %q)", l.Format)
	}
	return nil
}

func (d *DownloadConfig) validate() error {
	if d.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", d.Timeout)
	}
	if d.Pause < 0 {
		return fmt.Errorf("pause must be >= 0 (got %v)", d.Pause)
	}
	if d.Retries < 0 {
		return fmt.Errorf("retries must be >= 0 (got %d)", d.Retries)
	}
	return nil
}

func (b *BuildConfig) validate() error {
	if b.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", b.Workers)
	}
	if b.RetainProbability < 0 || b.RetainProbability > 1 {
		return fmt.Errorf("retain_probability must be in [0, 1] (got %v)", b.RetainProbability)
	}

	langs := ParseList(b.HyphenLangsRaw)
	if len(langs) == 0 {
		return fmt.Errorf("hyphen_langs must name at least one language")
	}
	if err := hyphen.Check(langs); err != nil {
		return fmt.Errorf("hyphen_langs: %w", err)
	}
	b.HyphenLangs = langs

	return nil
}

// ParseList splits a comma-separated list of language codes, normalising
// each one and dropping blanks.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = domain.NormalizeLang(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
