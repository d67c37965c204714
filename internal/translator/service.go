package translator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/heartmarshall/gibberify/internal/domain"
)

// DictionaryRepo loads stored dictionaries.
type DictionaryRepo interface {
	LoadDictionary(ctx context.Context, langIn, langOut string) (*domain.Dictionary, error)
	ListDictionaries(ctx context.Context) ([]string, error)
}

// Pair is one available translation direction.
type Pair struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Reverse bool   `json:"reverse"`
}

// Service translates text between any two languages that have a stored
// dictionary. Dictionaries are loaded on first use and kept read-only in
// memory.
type Service struct {
	log  *slog.Logger
	repo DictionaryRepo
	syl  Syllabizer

	mu    sync.RWMutex
	cache map[string]*domain.Dictionary

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService creates a Service. seed drives the random fallback for
// unknown syllables.
func NewService(log *slog.Logger, repo DictionaryRepo, syl Syllabizer, seed uint64) *Service {
	return &Service{
		log:   log,
		repo:  repo,
		syl:   syl,
		cache: make(map[string]*domain.Dictionary),
		rng:   rand.New(rand.NewPCG(seed, seed+1)),
	}
}

// Translate converts text from langIn to langOut. The direction follows
// the Reverse flag of the stored dictionary. A missing dictionary is
// reported as domain.ErrDictionaryNotFound.
func (s *Service) Translate(ctx context.Context, langIn, langOut, text string) (string, error) {
	langIn, langOut = normalizeCode(langIn), normalizeCode(langOut)
	var errs []domain.FieldError
	if langIn == "" {
		errs = append(errs, domain.FieldError{Field: "from", Message: "required"})
	}
	if langOut == "" {
		errs = append(errs, domain.FieldError{Field: "to", Message: "required"})
	}
	if len(errs) > 0 {
		return "", domain.NewValidationErrors(errs)
	}

	if text == "" || langIn == langOut {
		return text, nil
	}

	d, err := s.dictionary(ctx, langIn, langOut)
	if err != nil {
		return "", err
	}

	if d.Reverse {
		return Degibberify(d, text), nil
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return Gibberify(d, s.syl, text, s.rng), nil
}

// normalizeCode reduces a natural language code to its base form ("en_US",
// "EN" and "en-GB" become "en"). Invented codes are only trimmed and
// lowercased, as the language config stores them.
func normalizeCode(code string) string {
	if domain.IsNatural(code) {
		return domain.NormalizeLang(code)
	}
	return strings.ToLower(strings.TrimSpace(code))
}

func (s *Service) dictionary(ctx context.Context, langIn, langOut string) (*domain.Dictionary, error) {
	key := domain.PairKey(langIn, langOut)

	s.mu.RLock()
	d, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return d, nil
	}

	d, err := s.repo.LoadDictionary(ctx, langIn, langOut)
	if err != nil {
		return nil, fmt.Errorf("translate %s: %w", key, err)
	}

	d.Prepare()

	s.mu.Lock()
	s.cache[key] = d
	s.mu.Unlock()

	s.log.Debug("dictionary loaded", slog.String("pair", key), slog.Int("entries", d.Len()))
	return d, nil
}

// Languages lists every stored translation direction.
func (s *Service) Languages(ctx context.Context) ([]Pair, error) {
	keys, err := s.repo.ListDictionaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		in, out, ok := domain.SplitPairKey(k)
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{From: in, To: out, Reverse: !domain.IsNatural(in)})
	}
	slices.SortFunc(pairs, func(a, b Pair) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	return pairs, nil
}

// Reset drops every cached dictionary, e.g. after a rebuild.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.cache)
}
