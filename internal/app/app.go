// Package app wires configuration, storage, downloads and the translator
// into the services used by the CLI, the interactive menu and the HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/heartmarshall/gibberify/internal/adapter/badgerstore"
	"github.com/heartmarshall/gibberify/internal/adapter/fsstore"
	"github.com/heartmarshall/gibberify/internal/adapter/postgres"
	"github.com/heartmarshall/gibberify/internal/adapter/provider/download"
	"github.com/heartmarshall/gibberify/internal/adapter/sqlite"
	"github.com/heartmarshall/gibberify/internal/app/builder"
	"github.com/heartmarshall/gibberify/internal/config"
	"github.com/heartmarshall/gibberify/internal/dataset"
	"github.com/heartmarshall/gibberify/internal/domain"
	"github.com/heartmarshall/gibberify/internal/syllabizer"
	"github.com/heartmarshall/gibberify/internal/translator"
)

// App holds the long-lived dependencies of one gibberify process.
type App struct {
	Config     *config.Config
	Languages  *config.Languages
	Log        *slog.Logger
	Repo       *dataset.Repo
	Downloader builder.Downloader

	mu         sync.Mutex
	translator *translator.Service
}

// New loads the language configuration and opens the configured store.
// The caller must Close the returned App.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	langs, err := config.LoadLanguages(cfg.Data.LanguagesPath())
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		Languages:  langs,
		Log:        log,
		Repo:       dataset.NewRepo(store, DataVersion()),
		Downloader: download.New(cfg.Download, log),
	}, nil
}

// OpenStore opens the dataset store selected by cfg.Data.Backend.
func OpenStore(ctx context.Context, cfg *config.Config) (dataset.Store, error) {
	dir := cfg.Data.Dir
	switch domain.Backend(cfg.Data.Backend) {
	case domain.BackendFS:
		return fsstore.New(dir, cfg.Data.Compress)
	case domain.BackendSQLite:
		return sqlite.Open(ctx, filepath.Join(dir, "gibberify.db"))
	case domain.BackendBadger:
		return badgerstore.Open(filepath.Join(dir, "badger"))
	case domain.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return postgres.NewStore(pool), nil
	default:
		return nil, domain.NewConfigError("data.backend",
			fmt.Errorf("unknown backend %q", cfg.Data.Backend))
	}
}

// Build runs the generation pipeline. The cached translator is dropped so
// the next translation sees the new artifacts.
func (a *App) Build(ctx context.Context, opts builder.Options) (builder.Summary, error) {
	opts.FromRaw = opts.FromRaw || a.Config.Build.FromRaw

	p := builder.NewPipeline(
		a.Log.With(slog.String("component", "builder")),
		a.Repo, a.Downloader, a.Languages,
		builder.ConfigFrom(a.Config.Build, a.Repo.Version()),
	)
	summary, err := p.Run(ctx, opts)

	a.mu.Lock()
	a.translator = nil
	a.mu.Unlock()

	return summary, err
}

// ConfiguredPairs returns the dictionary keys the language configuration
// calls for, both directions of every natural × invented pair.
func (a *App) ConfiguredPairs() []string {
	var keys []string
	for _, realLang := range a.Languages.RealLangs {
		for _, gibLang := range a.Languages.GibCodes() {
			keys = append(keys,
				domain.PairKey(realLang, gibLang),
				domain.PairKey(gibLang, realLang),
			)
		}
	}
	return keys
}

// MissingPairs returns the configured dictionary keys that are not stored.
func (a *App) MissingPairs(ctx context.Context) ([]string, error) {
	var missing []string
	for _, key := range a.ConfiguredPairs() {
		ok, err := a.Repo.Exists(ctx, domain.KindDicts, key)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", key, err)
		}
		if !ok {
			missing = append(missing, key)
		}
	}
	return missing, nil
}

// EnsureDictionaries builds the dataset when a configured dictionary is
// missing. notice, if set, is called with the missing keys before the build.
func (a *App) EnsureDictionaries(ctx context.Context, notice func(missing []string)) error {
	missing, err := a.MissingPairs(ctx)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}
	if notice != nil {
		notice(missing)
	}
	if _, err := a.Build(ctx, builder.Options{}); err != nil {
		return fmt.Errorf("build missing dictionaries: %w", err)
	}
	return nil
}

// Translator returns the shared translation service, loading the
// hyphenation patterns on first use.
func (a *App) Translator(ctx context.Context) (*translator.Service, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.translator != nil {
		return a.translator, nil
	}

	chain, err := builder.LoadChain(ctx, a.Repo, a.Config.Build.HyphenLangs)
	if err != nil {
		return nil, fmt.Errorf("load hyphenation patterns: %w", err)
	}
	a.translator = translator.NewService(
		a.Log.With(slog.String("component", "translator")),
		a.Repo, syllabizer.New(chain), a.Config.Build.Seed,
	)
	return a.translator, nil
}

// Purge deletes every generated artifact.
func (a *App) Purge(ctx context.Context) (int, error) {
	n, err := a.Repo.Purge(ctx)

	a.mu.Lock()
	a.translator = nil
	a.mu.Unlock()

	return n, err
}

// Close releases the store.
func (a *App) Close() error {
	return a.Repo.Close()
}
