package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// isolate points the user config dir at an empty temp dir so a developer's
// own config never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv(EnvPath, "")
	return dir
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
data:
  dir: "/var/lib/gibberify"
  backend: "sqlite"
  compress: true

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 4

download:
  timeout: "30s"
  pause: "500ms"
  retries: 2

build:
  workers: 3
  seed: 42
  retain_probability: 0.5
  from_raw: true
  hyphen_langs: "en, de,it"

server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"

log:
  level: "debug"
  format: "json"
`

func validConfig() *Config {
	return &Config{
		Data:     DataConfig{Dir: "/tmp/gib", Backend: "fs"},
		Download: DownloadConfig{Timeout: time.Minute, Pause: time.Second, Retries: 1},
		Build:    BuildConfig{RetainProbability: 0.7, HyphenLangsRaw: "en,it"},
		Server:   ServerConfig{Port: 8080},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := isolate(t)
	path := writeYAML(t, dir, validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Data
	if cfg.Data.Dir != "/var/lib/gibberify" {
		t.Errorf("data.dir = %q", cfg.Data.Dir)
	}
	if cfg.Data.Backend != "sqlite" {
		t.Errorf("data.backend = %q, want sqlite", cfg.Data.Backend)
	}
	if !cfg.Data.Compress {
		t.Error("data.compress should be true")
	}
	if got := cfg.Data.LanguagesPath(); got != "/var/lib/gibberify/languages.yaml" {
		t.Errorf("languages path = %q", got)
	}

	// Database
	if cfg.Database.MaxConns != 4 {
		t.Errorf("database.max_conns = %d, want 4", cfg.Database.MaxConns)
	}
	if cfg.Database.MinConns != 1 {
		t.Errorf("database.min_conns = %d, want 1 (default)", cfg.Database.MinConns)
	}

	// Download
	if cfg.Download.Timeout != 30*time.Second {
		t.Errorf("download.timeout = %v", cfg.Download.Timeout)
	}
	if cfg.Download.Pause != 500*time.Millisecond {
		t.Errorf("download.pause = %v", cfg.Download.Pause)
	}
	if cfg.Download.RawURL == "" {
		t.Error("download.raw_url should have a default")
	}

	// Build
	if cfg.Build.Workers != 3 || cfg.Build.Seed != 42 || !cfg.Build.FromRaw {
		t.Errorf("unexpected build config: %+v", cfg.Build)
	}
	if cfg.Build.RetainProbability != 0.5 {
		t.Errorf("build.retain_probability = %v, want 0.5", cfg.Build.RetainProbability)
	}
	if !slices.Equal(cfg.Build.HyphenLangs, []string{"en", "de", "it"}) {
		t.Errorf("build.hyphen_langs = %v", cfg.Build.HyphenLangs)
	}

	// Server
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("server.write_timeout = %v, want 30s (default)", cfg.Server.WriteTimeout)
	}

	// Log
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoad_PathFromEnv(t *testing.T) {
	dir := isolate(t)
	path := writeYAML(t, dir, validYAML)
	t.Setenv(EnvPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := isolate(t)
	path := writeYAML(t, dir, validYAML)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("GIBBERIFY_BACKEND", "badger")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Data.Backend != "badger" {
		t.Errorf("data.backend = %q, want badger (ENV override)", cfg.Data.Backend)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Data.Backend != "fs" {
		t.Errorf("data.backend = %q, want fs (default)", cfg.Data.Backend)
	}
	if want := filepath.Join(dir, "gibberify"); cfg.Data.Dir != want {
		t.Errorf("data.dir = %q, want %q", cfg.Data.Dir, want)
	}
	if cfg.Build.RetainProbability != 0.7 {
		t.Errorf("build.retain_probability = %v, want 0.7", cfg.Build.RetainProbability)
	}
	if cfg.Server.RateLimit != 120 {
		t.Errorf("server.rate_limit = %d, want 120 (default)", cfg.Server.RateLimit)
	}
	if len(cfg.Build.HyphenLangs) != 15 {
		t.Errorf("default hyphen langs = %v", cfg.Build.HyphenLangs)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	isolate(t)

	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := writeYAML(t, dir, `{{{invalid yaml`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(cfg.Build.HyphenLangs, []string{"en", "it"}) {
		t.Errorf("hyphen langs = %v", cfg.Build.HyphenLangs)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Data.Backend = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Data.Backend = "postgres" }},
		{"zero timeout", func(c *Config) { c.Download.Timeout = 0 }},
		{"negative pause", func(c *Config) { c.Download.Pause = -time.Second }},
		{"negative retries", func(c *Config) { c.Download.Retries = -1 }},
		{"negative workers", func(c *Config) { c.Build.Workers = -2 }},
		{"retain above one", func(c *Config) { c.Build.RetainProbability = 1.5 }},
		{"retain below zero", func(c *Config) { c.Build.RetainProbability = -0.1 }},
		{"no hyphen langs", func(c *Config) { c.Build.HyphenLangsRaw = " , " }},
		{"unknown hyphen lang", func(c *Config) { c.Build.HyphenLangsRaw = "en,xx" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_PostgresWithDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Data.Backend = "postgres"
	cfg.Database.DSN = "postgres://localhost/gib"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"en", []string{"en"}},
		{"en_US, pt-BR ,,DE", []string{"en", "pt", "de"}},
	}
	for _, tt := range tests {
		if got := ParseList(tt.raw); !slices.Equal(got, tt.want) {
			t.Errorf("ParseList(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
