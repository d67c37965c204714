package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/heartmarshall/gibberify/internal/domain"
)

// Generator is written into every envelope.
const Generator = "gibberify"

// Envelope wraps every stored artifact.
type Envelope struct {
	SchemaVersion string              `json:"schema_version"`
	Generator     string              `json:"generator"`
	Kind          domain.ArtifactKind `json:"kind"`
	Key           string              `json:"key"`
	CreatedAt     time.Time           `json:"created_at"`
	Data          json.RawMessage     `json:"data"`
}

// Repo reads and writes typed artifacts.
type Repo struct {
	store   Store
	version string
	now     func() time.Time
}

// NewRepo creates a Repo stamping artifacts with version.
func NewRepo(store Store, version string) *Repo {
	return &Repo{store: store, version: version, now: time.Now}
}

// Version is the generator version artifacts are written with.
func (r *Repo) Version() string { return r.version }

func (r *Repo) save(ctx context.Context, kind domain.ArtifactKind, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", kind, key, err)
	}
	env, err := json.Marshal(Envelope{
		SchemaVersion: r.version,
		Generator:     Generator,
		Kind:          kind,
		Key:           key,
		CreatedAt:     r.now().UTC(),
		Data:          data,
	})
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", kind, key, err)
	}
	if err := r.store.Put(ctx, kind, key, env); err != nil {
		return fmt.Errorf("put %s/%s: %w", kind, key, err)
	}
	return nil
}

func (r *Repo) load(ctx context.Context, kind domain.ArtifactKind, key string, v any) error {
	raw, err := r.store.Get(ctx, kind, key)
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", kind, key, err)
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode %s/%s: %w", kind, key, err)
	}
	if !domain.CompatibleVersions(env.SchemaVersion, r.version) {
		return fmt.Errorf("%s/%s written by %q, running %q: %w",
			kind, key, env.SchemaVersion, r.version, domain.ErrIncompatibleVersion)
	}
	if env.Kind != kind {
		return fmt.Errorf("%s/%s holds a %q artifact: %w", kind, key, env.Kind, domain.ErrValidation)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decode %s/%s data: %w", kind, key, err)
	}
	return nil
}

// Exists reports whether an artifact is stored, regardless of its version.
func (r *Repo) Exists(ctx context.Context, kind domain.ArtifactKind, key string) (bool, error) {
	_, err := r.store.Get(ctx, kind, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("get %s/%s: %w", kind, key, err)
	}
}

// LoadWords returns the word pool of lang.
func (r *Repo) LoadWords(ctx context.Context, lang string) (domain.WordPool, error) {
	var words domain.WordPool
	if err := r.load(ctx, domain.KindWords, lang, &words); err != nil {
		return nil, err
	}
	return words, nil
}

// SaveWords stores the word pool of lang.
func (r *Repo) SaveWords(ctx context.Context, lang string, words domain.WordPool) error {
	return r.save(ctx, domain.KindWords, lang, words)
}

// LoadSyllables returns the syllable pool of lang.
func (r *Repo) LoadSyllables(ctx context.Context, lang string) (domain.SyllablePool, error) {
	var pool domain.SyllablePool
	if err := r.load(ctx, domain.KindSyllables, lang, &pool); err != nil {
		return nil, err
	}
	return pool, nil
}

// SaveSyllables stores the syllable pool of lang.
func (r *Repo) SaveSyllables(ctx context.Context, lang string, pool domain.SyllablePool) error {
	return r.save(ctx, domain.KindSyllables, lang, pool)
}

// LoadDictionary returns the dictionary translating langIn into langOut.
// A missing dictionary is reported as domain.ErrDictionaryNotFound.
func (r *Repo) LoadDictionary(ctx context.Context, langIn, langOut string) (*domain.Dictionary, error) {
	var d domain.Dictionary
	err := r.load(ctx, domain.KindDicts, domain.PairKey(langIn, langOut), &d)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", domain.PairKey(langIn, langOut), domain.ErrDictionaryNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveDictionary stores d under its pair key.
func (r *Repo) SaveDictionary(ctx context.Context, d *domain.Dictionary) error {
	return r.save(ctx, domain.KindDicts, d.Key(), d)
}

// ListDictionaries returns the keys of every stored dictionary.
func (r *Repo) ListDictionaries(ctx context.Context) ([]string, error) {
	keys, err := r.store.List(ctx, domain.KindDicts)
	if err != nil {
		return nil, fmt.Errorf("list dicts: %w", err)
	}
	return keys, nil
}

// LoadPatterns returns the raw hyphenation pattern file of lang.
func (r *Repo) LoadPatterns(ctx context.Context, lang string) ([]byte, error) {
	var text string
	if err := r.load(ctx, domain.KindPatterns, lang, &text); err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// SavePatterns stores the raw hyphenation pattern file of lang.
func (r *Repo) SavePatterns(ctx context.Context, lang string, data []byte) error {
	return r.save(ctx, domain.KindPatterns, lang, string(data))
}

// Purge deletes every artifact of every kind.
func (r *Repo) Purge(ctx context.Context) (int, error) {
	deleted := 0
	for _, kind := range domain.ArtifactKinds() {
		keys, err := r.store.List(ctx, kind)
		if err != nil {
			return deleted, fmt.Errorf("list %s: %w", kind, err)
		}
		for _, key := range keys {
			if err := r.store.Delete(ctx, kind, key); err != nil {
				return deleted, fmt.Errorf("delete %s/%s: %w", kind, key, err)
			}
			deleted++
		}
	}
	return deleted, nil
}

// Ping checks the underlying store.
func (r *Repo) Ping(ctx context.Context) error { return r.store.Ping(ctx) }

// Close releases the underlying store.
func (r *Repo) Close() error { return r.store.Close() }
