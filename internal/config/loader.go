package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "GIBBERIFY_CONFIG"

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The file is path if given, then $GIBBERIFY_CONFIG, then config.yaml in the
// default data directory. A missing file is an error only when it was named
// explicitly; otherwise configuration comes from ENV + defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv(EnvPath)
	}
	explicitPath := path != ""
	if !explicitPath {
		path = filepath.Join(DefaultDataDir(), "config.yaml")
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if cfg.Data.Dir == "" {
		cfg.Data.Dir = DefaultDataDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// DefaultDataDir is gibberify's directory under the user config dir,
// falling back to the working directory when the OS reports none.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "gibberify"
	}
	return filepath.Join(base, "gibberify")
}
