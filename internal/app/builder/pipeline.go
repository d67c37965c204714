// Package builder generates every artifact gibberify needs: hyphenation
// patterns, per-language syllable pools and the dictionaries of every
// natural × invented language pair.
package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/gibberify/internal/config"
	"github.com/heartmarshall/gibberify/internal/domain"
	"github.com/heartmarshall/gibberify/internal/hyphen"
	"github.com/heartmarshall/gibberify/internal/scrambler"
	"github.com/heartmarshall/gibberify/internal/syllabizer"
	"github.com/heartmarshall/gibberify/pkg/ctxutil"
)

// Phase names in execution order.
const (
	PhasePatterns  = "patterns"
	PhaseSyllables = "syllables"
	PhaseDicts     = "dicts"
)

// Repository is the slice of the dataset repository the pipeline needs.
type Repository interface {
	scrambler.Repository
	Exists(ctx context.Context, kind domain.ArtifactKind, key string) (bool, error)
	LoadWords(ctx context.Context, lang string) (domain.WordPool, error)
	SaveWords(ctx context.Context, lang string, words domain.WordPool) error
	SaveSyllables(ctx context.Context, lang string, pool domain.SyllablePool) error
	LoadPatterns(ctx context.Context, lang string) ([]byte, error)
	SavePatterns(ctx context.Context, lang string, data []byte) error
}

// Downloader fetches remote build inputs.
type Downloader interface {
	Raw(ctx context.Context, lang string) ([]byte, error)
	Words(ctx context.Context, lang string) (domain.WordPool, error)
	Syllables(ctx context.Context, lang string) (domain.SyllablePool, error)
	Patterns(ctx context.Context, lang string) ([]byte, error)
}

// Options select what a run regenerates.
type Options struct {
	// ForceDownload re-downloads every input, then rebuilds pools and dictionaries.
	ForceDownload bool
	// ForceSyllables regenerates syllable pools locally from word lists.
	ForceSyllables bool
	// RebuildDicts rebuilds dictionaries even when their fingerprint matches.
	RebuildDicts bool
	// FromRaw builds word lists from raw hunspell dictionaries instead of
	// downloading pregenerated data.
	FromRaw bool
}

// Config holds the generation parameters shared by every pair.
type Config struct {
	Workers           int
	Seed              uint64
	RetainProbability float64
	HyphenLangs       []string
	Version           string
}

// ConfigFrom adapts the application build config.
func ConfigFrom(cfg config.BuildConfig, version string) Config {
	return Config{
		Workers:           cfg.Workers,
		Seed:              cfg.Seed,
		RetainProbability: cfg.RetainProbability,
		HyphenLangs:       cfg.HyphenLangs,
		Version:           version,
	}
}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Built    int
	Skipped  int
	Duration time.Duration
	Err      error
}

// Summary describes a finished run.
type Summary struct {
	RunID  uuid.UUID
	Phases map[string]PhaseResult
}

// Pipeline orchestrates the three build phases. Each phase fans out over a
// bounded worker pool and completes before the next one starts.
type Pipeline struct {
	log   *slog.Logger
	repo  Repository
	dl    Downloader
	langs *config.Languages
	cfg   Config
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, repo Repository, dl Downloader, langs *config.Languages, cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{log: log, repo: repo, dl: dl, langs: langs, cfg: cfg}
}

// Run executes the pipeline. Configuration problems are reported before any
// artifact is written; the first download or storage error aborts the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Summary, error) {
	summary := Summary{RunID: uuid.New(), Phases: make(map[string]PhaseResult)}
	log := p.log.With(slog.String("run_id", summary.RunID.String()))
	ctx = ctxutil.WithRunID(ctx, summary.RunID)

	if err := p.langs.Validate(); err != nil {
		return summary, err
	}

	plan, err := p.plan(ctx, opts)
	if err != nil {
		return summary, err
	}
	if err := hyphen.Check(p.cfg.HyphenLangs); err != nil {
		return summary, err
	}

	log.Info("build started",
		slog.Int("real_langs", len(p.langs.RealLangs)),
		slog.Int("gib_langs", len(p.langs.GibLangs)),
		slog.Int("workers", p.cfg.Workers),
	)

	var chain hyphen.Chain
	phases := []struct {
		name string
		run  func(context.Context) PhaseResult
	}{
		{PhasePatterns, func(ctx context.Context) PhaseResult {
			var res PhaseResult
			chain, res = p.runPatterns(ctx, opts)
			return res
		}},
		{PhaseSyllables, func(ctx context.Context) PhaseResult {
			return p.runSyllables(ctx, plan, opts, syllabizer.New(chain))
		}},
		{PhaseDicts, func(ctx context.Context) PhaseResult {
			return p.runDicts(ctx, plan, opts, log)
		}},
	}

	for _, phase := range phases {
		start := time.Now()
		log.Info("starting phase", slog.String("phase", phase.name))

		result := phase.run(ctx)
		result.Duration = time.Since(start)
		summary.Phases[phase.name] = result

		if result.Err != nil {
			log.Error("phase failed",
				slog.String("phase", phase.name),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
			return summary, fmt.Errorf("%s phase: %w", phase.name, result.Err)
		}
		log.Info("phase completed",
			slog.String("phase", phase.name),
			slog.Int("built", result.Built),
			slog.Int("skipped", result.Skipped),
			slog.Duration("duration", result.Duration),
		)
	}

	log.Info("build completed")
	return summary, nil
}

// buildPlan records, per natural language, how its syllable pool is made.
type buildPlan struct {
	// fetch lists languages whose pregenerated pool is downloaded.
	fetch []string
	// local lists languages syllabized here from a word list.
	local []string
	// fresh holds every language whose pool this run regenerates.
	fresh map[string]bool
}

func (p *Pipeline) plan(ctx context.Context, opts Options) (buildPlan, error) {
	plan := buildPlan{fresh: make(map[string]bool)}
	for _, lang := range p.langs.RealLangs {
		if !opts.ForceDownload && !opts.ForceSyllables {
			ok, err := p.repo.Exists(ctx, domain.KindSyllables, lang)
			if err != nil {
				return plan, fmt.Errorf("check syllables %s: %w", lang, err)
			}
			if ok {
				continue
			}
		}

		plan.fresh[lang] = true
		if opts.FromRaw || opts.ForceSyllables {
			plan.local = append(plan.local, lang)
		} else {
			plan.fetch = append(plan.fetch, lang)
		}
	}
	return plan, nil
}

// runPatterns makes sure every pattern file is stored, then parses them into
// a chain. Translation needs the patterns even when no pool is syllabized
// locally.
func (p *Pipeline) runPatterns(ctx context.Context, opts Options) (hyphen.Chain, PhaseResult) {
	var (
		res PhaseResult
		mu  sync.Mutex
	)
	g, gctx := p.group(ctx)
	for _, lang := range p.cfg.HyphenLangs {
		g.Go(func() error {
			if !opts.ForceDownload {
				ok, err := p.repo.Exists(gctx, domain.KindPatterns, lang)
				if err != nil {
					return err
				}
				if ok {
					mu.Lock()
					res.Skipped++
					mu.Unlock()
					return nil
				}
			}

			data, err := p.dl.Patterns(gctx, lang)
			if err != nil {
				return err
			}
			if err := p.repo.SavePatterns(gctx, lang, data); err != nil {
				return fmt.Errorf("save patterns %s: %w", lang, err)
			}
			mu.Lock()
			res.Built++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		res.Err = err
		return nil, res
	}

	chain, err := LoadChain(ctx, p.repo, p.cfg.HyphenLangs)
	if err != nil {
		res.Err = err
		return nil, res
	}
	return chain, res
}

func (p *Pipeline) runSyllables(ctx context.Context, plan buildPlan, opts Options, syl *syllabizer.Syllabizer) PhaseResult {
	res := PhaseResult{Skipped: len(p.langs.RealLangs) - len(plan.fresh)}

	var mu sync.Mutex
	done := func() {
		mu.Lock()
		res.Built++
		mu.Unlock()
	}

	g, gctx := p.group(ctx)
	for _, lang := range plan.fetch {
		g.Go(func() error {
			pool, err := p.dl.Syllables(gctx, lang)
			if err != nil {
				return err
			}
			if err := p.repo.SaveSyllables(gctx, lang, pool); err != nil {
				return fmt.Errorf("save syllables %s: %w", lang, err)
			}
			done()
			return nil
		})
	}
	for _, lang := range plan.local {
		g.Go(func() error {
			words, err := p.words(gctx, lang, opts)
			if err != nil {
				return err
			}
			pool := syl.BuildPool(words)
			if pool.Len() == 0 {
				return domain.NewConfigError("real_langs."+lang, domain.ErrEmptyPool)
			}
			if err := p.repo.SaveSyllables(gctx, lang, pool); err != nil {
				return fmt.Errorf("save syllables %s: %w", lang, err)
			}
			p.log.Debug("syllables generated",
				slog.String("lang", lang),
				slog.Int("words", len(words)),
				slog.Int("syllables", pool.Len()),
			)
			done()
			return nil
		})
	}

	res.Err = g.Wait()
	return res
}

// words returns the word list of lang: stored, parsed from a raw dictionary
// or downloaded pregenerated, in that order of preference.
func (p *Pipeline) words(ctx context.Context, lang string, opts Options) (domain.WordPool, error) {
	if !opts.ForceDownload {
		words, err := p.repo.LoadWords(ctx, lang)
		if err == nil {
			return words, nil
		}
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrIncompatibleVersion) {
			return nil, err
		}
	}

	var words domain.WordPool
	if opts.FromRaw {
		raw, err := p.dl.Raw(ctx, lang)
		if err != nil {
			return nil, err
		}
		if words, err = syllabizer.ParseRaw(lang, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("parse raw %s: %w", lang, err)
		}
	} else {
		var err error
		if words, err = p.dl.Words(ctx, lang); err != nil {
			return nil, err
		}
	}

	if err := p.repo.SaveWords(ctx, lang, words); err != nil {
		return nil, fmt.Errorf("save words %s: %w", lang, err)
	}
	return words, nil
}

// runDicts builds every pair before saving any, so a failed build leaves
// the stored dictionaries as they were.
func (p *Pipeline) runDicts(ctx context.Context, plan buildPlan, opts Options, log *slog.Logger) PhaseResult {
	type built struct {
		s   *scrambler.Scrambler
		out *scrambler.Output
	}
	var (
		res   PhaseResult
		mu    sync.Mutex
		ready []built
	)

	opt := scrambler.Options{
		Seed:              p.cfg.Seed,
		RetainProbability: p.cfg.RetainProbability,
		Version:           p.cfg.Version,
	}

	g, gctx := p.group(ctx)
	for _, realLang := range p.langs.RealLangs {
		for _, gibLang := range p.langs.GibCodes() {
			settings := p.langs.GibLangs[gibLang]
			force := opts.RebuildDicts || plan.fresh[realLang] ||
				slices.ContainsFunc(settings.Pool, func(l string) bool { return plan.fresh[l] })

			g.Go(func() error {
				s := scrambler.New(p.repo, log, realLang, gibLang, settings, opt)
				out, err := s.Build(gctx, force)
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				if out == nil {
					res.Skipped++
					return nil
				}
				ready = append(ready, built{s: s, out: out})
				return nil
			})
		}
	}
	if res.Err = g.Wait(); res.Err != nil {
		return res
	}

	g, gctx = p.group(ctx)
	for _, b := range ready {
		g.Go(func() error {
			if _, err := b.s.Save(gctx, b.out); err != nil {
				return err
			}
			mu.Lock()
			res.Built++
			mu.Unlock()
			return nil
		})
	}
	res.Err = g.Wait()
	return res
}

func (p *Pipeline) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	return g, gctx
}

// PatternStore reads stored hyphenation pattern files.
type PatternStore interface {
	LoadPatterns(ctx context.Context, lang string) ([]byte, error)
}

// LoadChain parses the stored pattern files of langs into a hyphenation
// chain. A missing file is domain.ErrNotFound: run a build first.
func LoadChain(ctx context.Context, store PatternStore, langs []string) (hyphen.Chain, error) {
	return hyphen.Load(ctx, patternSource{store}, langs)
}

type patternSource struct {
	store PatternStore
}

func (s patternSource) Patterns(ctx context.Context, lang string) ([]byte, error) {
	return s.store.LoadPatterns(ctx, lang)
}
