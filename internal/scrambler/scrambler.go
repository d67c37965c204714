// Package scrambler builds the forward and reverse substitution dictionaries
// for one natural × invented language pair.
package scrambler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/zeebo/xxh3"

	"github.com/heartmarshall/gibberify/internal/domain"
	"github.com/heartmarshall/gibberify/internal/poolbuilder"
)

// Repository is the slice of the dataset repository the scrambler needs.
type Repository interface {
	LoadSyllables(ctx context.Context, lang string) (domain.SyllablePool, error)
	LoadDictionary(ctx context.Context, langIn, langOut string) (*domain.Dictionary, error)
	SaveDictionary(ctx context.Context, d *domain.Dictionary) error
}

// Options tune a build.
type Options struct {
	Seed              uint64
	RetainProbability float64
	Version           string
}

// Result summarizes one Run.
type Result struct {
	Skipped  bool
	Entries  int
	PoolSize int
}

// Scrambler generates the dictionaries between RealLang and GibLang.
type Scrambler struct {
	RealLang string
	GibLang  string
	Settings domain.GibSettings

	opts Options
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New creates a Scrambler for one pair.
func New(repo Repository, log *slog.Logger, realLang, gibLang string, settings domain.GibSettings, opts Options) *Scrambler {
	return &Scrambler{
		RealLang: realLang,
		GibLang:  gibLang,
		Settings: settings.Clone(),
		opts:     opts,
		repo:     repo,
		log:      log.With(slog.String("pair", domain.PairKey(realLang, gibLang))),
		now:      time.Now,
	}
}

// Fingerprint identifies the dictionaries this Scrambler would produce.
func (s *Scrambler) Fingerprint() string {
	return domain.GenerationFingerprint(s.Settings, s.opts.Seed, s.opts.RetainProbability, domain.MajorVersion(s.opts.Version))
}

// Output is a built pair of dictionaries that has not been saved yet.
type Output struct {
	Forward  *domain.Dictionary
	Backward *domain.Dictionary
	PoolSize int
}

// Run builds and saves both dictionaries unless a forward dictionary with
// the same fingerprint is already stored. force rebuilds regardless.
func (s *Scrambler) Run(ctx context.Context, force bool) (Result, error) {
	out, err := s.Build(ctx, force)
	if err != nil {
		return Result{}, err
	}
	if out == nil {
		return Result{Skipped: true}, nil
	}
	return s.Save(ctx, out)
}

// Build generates both dictionaries without touching the stored ones.
// It returns nil when the stored forward dictionary is up to date and
// force is false.
func (s *Scrambler) Build(ctx context.Context, force bool) (*Output, error) {
	if !force {
		exists, err := s.exists(ctx)
		if err != nil {
			return nil, err
		}
		if exists {
			s.log.Debug("dictionary up to date, skipping")
			return nil, nil
		}
	}

	realPool, err := s.repo.LoadSyllables(ctx, s.RealLang)
	if err != nil {
		return nil, fmt.Errorf("load syllables %s: %w", s.RealLang, err)
	}
	sources := make(map[string]domain.SyllablePool, len(s.Settings.Pool))
	for _, lang := range s.Settings.Pool {
		if _, ok := sources[lang]; ok {
			continue
		}
		p, err := s.repo.LoadSyllables(ctx, lang)
		if err != nil {
			return nil, fmt.Errorf("load syllables %s: %w", lang, err)
		}
		sources[lang] = p
	}

	seed := PairSeed(s.opts.Seed, s.RealLang, s.GibLang)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	builder, err := poolbuilder.New(s.opts.RetainProbability, rng)
	if err != nil {
		return nil, err
	}
	gibPool, err := builder.Build(s.Settings, sources)
	if err != nil {
		return nil, fmt.Errorf("build pool %s: %w", s.GibLang, err)
	}

	straight, err := MakeStraight(realPool, gibPool, rng)
	if err != nil {
		return nil, err
	}
	reverse := MakeReverse(straight)

	fingerprint := s.Fingerprint()
	now := s.now().UTC()
	forward := &domain.Dictionary{
		LangIn:      s.RealLang,
		LangOut:     s.GibLang,
		Settings:    s.Settings.Clone(),
		Fingerprint: fingerprint,
		Version:     s.opts.Version,
		CreatedAt:   now,
		Buckets:     straight,
	}
	backward := &domain.Dictionary{
		LangIn:      s.GibLang,
		LangOut:     s.RealLang,
		Reverse:     true,
		Settings:    s.Settings.Clone(),
		Fingerprint: fingerprint,
		Version:     s.opts.Version,
		CreatedAt:   now,
		Buckets:     reverse,
	}

	return &Output{Forward: forward, Backward: backward, PoolSize: gibPool.Len()}, nil
}

// Save stores a built pair.
func (s *Scrambler) Save(ctx context.Context, out *Output) (Result, error) {
	// The forward dictionary is what exists() looks at, so it goes last.
	if err := s.repo.SaveDictionary(ctx, out.Backward); err != nil {
		return Result{}, fmt.Errorf("save %s: %w", out.Backward.Key(), err)
	}
	if err := s.repo.SaveDictionary(ctx, out.Forward); err != nil {
		return Result{}, fmt.Errorf("save %s: %w", out.Forward.Key(), err)
	}

	s.log.Info("dictionaries built",
		slog.Int("entries", out.Forward.Len()),
		slog.Int("pool_size", out.PoolSize),
	)
	return Result{Entries: out.Forward.Len(), PoolSize: out.PoolSize}, nil
}

func (s *Scrambler) exists(ctx context.Context) (bool, error) {
	old, err := s.repo.LoadDictionary(ctx, s.RealLang, s.GibLang)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrIncompatibleVersion):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("check %s: %w", domain.PairKey(s.RealLang, s.GibLang), err)
	}
	return old.Fingerprint == s.Fingerprint(), nil
}

// PairSeed derives an independent seed for each language pair so that pairs
// built in parallel do not share a random stream.
func PairSeed(seed uint64, realLang, gibLang string) uint64 {
	return xxh3.HashString(strconv.FormatUint(seed, 10) + "\x00" + realLang + "\x00" + gibLang)
}

// MakeStraight maps every syllable of realPool to one syllable of gibPool.
// Output candidates are shuffled and, when the real pool is larger, extended
// with reshuffled copies so that there is always one left to pop. The result
// is bucketed by the rune length of the real syllable.
func MakeStraight(realPool, gibPool domain.SyllablePool, rng *rand.Rand) (map[int]map[string]string, error) {
	in := realPool.Flatten()
	out := gibPool.Flatten()
	if len(out) == 0 {
		return nil, domain.NewConfigError("pool", domain.ErrEmptyPool)
	}

	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	candidates := slices.Clone(out)
	for range len(in) / len(out) {
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		candidates = append(candidates, out...)
	}

	straight := make(map[int]map[string]string)
	for _, syl := range in {
		last := len(candidates) - 1
		set(straight, utf8.RuneCountInString(syl), syl, candidates[last])
		candidates = candidates[:last]
	}
	return straight, nil
}

// MakeReverse inverts a forward mapping and buckets it by the rune length of
// the new key. When several syllables map to the same output the last one in
// length-then-lexicographic order wins.
func MakeReverse(straight map[int]map[string]string) map[int]map[string]string {
	lengths := make([]int, 0, len(straight))
	for n := range straight {
		lengths = append(lengths, n)
	}
	slices.Sort(lengths)

	reverse := make(map[int]map[string]string)
	for _, n := range lengths {
		keys := make([]string, 0, len(straight[n]))
		for k := range straight[n] {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			v := straight[n][k]
			set(reverse, utf8.RuneCountInString(v), v, k)
		}
	}
	return reverse
}

func set(m map[int]map[string]string, n int, key, value string) {
	bucket, ok := m[n]
	if !ok {
		bucket = make(map[string]string)
		m[n] = bucket
	}
	bucket[key] = value
}
