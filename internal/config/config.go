package config

import (
	"path/filepath"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Database DatabaseConfig `yaml:"database"`
	Download DownloadConfig `yaml:"download"`
	Build    BuildConfig    `yaml:"build"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// DataConfig selects where generated artifacts live.
type DataConfig struct {
	Dir       string `yaml:"dir"       env:"GIBBERIFY_DATA_DIR"`
	Backend   string `yaml:"backend"   env:"GIBBERIFY_BACKEND"   env-default:"fs"`
	Compress  bool   `yaml:"compress"  env:"GIBBERIFY_COMPRESS"  env-default:"false"`
	Languages string `yaml:"languages" env:"GIBBERIFY_LANGUAGES"`
}

// DatabaseConfig holds PostgreSQL connection settings. Only used by the
// postgres backend.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// DownloadConfig holds the remote sources of raw and pregenerated data.
type DownloadConfig struct {
	RawURL      string        `yaml:"raw_url"      env:"DOWNLOAD_RAW_URL"      env-default:"https://raw.githubusercontent.com/brisvag/dictionaries/master/dictionaries"`
	DataURL     string        `yaml:"data_url"     env:"DOWNLOAD_DATA_URL"     env-default:"https://raw.githubusercontent.com/brisvag/gibberify-data/master"`
	PatternsURL string        `yaml:"patterns_url" env:"DOWNLOAD_PATTERNS_URL" env-default:"https://raw.githubusercontent.com/Kozea/Pyphen/main/pyphen/dictionaries"`
	Timeout     time.Duration `yaml:"timeout"      env:"DOWNLOAD_TIMEOUT"      env-default:"60s"`
	Pause       time.Duration `yaml:"pause"        env:"DOWNLOAD_PAUSE"        env-default:"1s"`
	Retries     int           `yaml:"retries"      env:"DOWNLOAD_RETRIES"      env-default:"1"`
}

// BuildConfig controls dictionary generation.
type BuildConfig struct {
	Workers           int     `yaml:"workers"            env:"BUILD_WORKERS"            env-default:"0"`
	Seed              uint64  `yaml:"seed"               env:"BUILD_SEED"               env-default:"0"`
	RetainProbability float64 `yaml:"retain_probability" env:"BUILD_RETAIN_PROBABILITY" env-default:"0.7"`
	FromRaw           bool    `yaml:"from_raw"           env:"BUILD_FROM_RAW"           env-default:"false"`
	HyphenLangsRaw    string  `yaml:"hyphen_langs"       env:"BUILD_HYPHEN_LANGS"       env-default:"en,it,de,fr,ru,es,nl,ca,el,et,is,lt,nb,pt,sk"`

	// HyphenLangs is parsed from HyphenLangsRaw during validation.
	HyphenLangs []string `yaml:"-" env:"-"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// CORSOrigins is a comma-separated list of browser origins allowed to
	// call the API; "*" allows any. Empty disables CORS headers.
	CORSOrigins string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	// RateLimit is the number of requests per minute accepted from one
	// client address. 0 disables limiting.
	RateLimit int `yaml:"rate_limit" env:"SERVER_RATE_LIMIT" env-default:"120"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// LanguagesPath returns the language config location, defaulting to
// languages.yaml inside the data directory.
func (d DataConfig) LanguagesPath() string {
	if d.Languages != "" {
		return d.Languages
	}
	return filepath.Join(d.Dir, "languages.yaml")
}
