// Package poolbuilder merges natural-language syllable pools into the
// candidate pool of an invented language and biases its content.
package poolbuilder

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/heartmarshall/gibberify/internal/domain"
)

// DefaultRetainProbability is the chance that a syllable on the losing side
// of an enrich or impoverish pattern survives.
const DefaultRetainProbability = 0.7

// Union merges pools bucket by bucket, deduplicating.
func Union(pools ...domain.SyllablePool) domain.SyllablePool {
	out := make(domain.SyllablePool)
	for _, p := range pools {
		out.Merge(p)
	}
	return out
}

// Builder applies invented-language settings to syllable pools.
type Builder struct {
	RetainProbability float64
	Rand              *rand.Rand
}

// New creates a Builder. p outside [0, 1] is an error.
func New(p float64, rng *rand.Rand) (*Builder, error) {
	if p < 0 || p > 1 {
		return nil, domain.NewValidationError("retain_probability", fmt.Sprintf("%v is outside [0, 1]", p))
	}
	return &Builder{RetainProbability: p, Rand: rng}, nil
}

// Build merges the pools of every language in settings.Pool, then applies
// the enrich, impoverish and remove patterns in that order. Each pattern
// works on the result of the previous one. A missing source pool is
// reported as domain.ErrNotFound and an empty result as
// domain.ErrEmptyPool.
func (b *Builder) Build(settings domain.GibSettings, pools map[string]domain.SyllablePool) (domain.SyllablePool, error) {
	if len(settings.Pool) == 0 {
		return nil, domain.NewConfigError("pool", domain.ErrEmptyPool)
	}

	sources := make([]domain.SyllablePool, 0, len(settings.Pool))
	for _, lang := range settings.Pool {
		p, ok := pools[lang]
		if !ok {
			return nil, fmt.Errorf("syllables %s: %w", lang, domain.ErrNotFound)
		}
		sources = append(sources, p)
	}
	pool := Union(sources...)

	for _, pat := range settings.Enrich {
		pool = pool.Filter(func(s string) bool {
			return strings.Contains(s, pat) || b.retain()
		})
	}
	for _, pat := range settings.Impoverish {
		pool = pool.Filter(func(s string) bool {
			return !strings.Contains(s, pat) || b.retain()
		})
	}
	for _, pat := range settings.Remove {
		pool = pool.Filter(func(s string) bool {
			return !strings.Contains(s, pat)
		})
	}

	if pool.Len() == 0 {
		return nil, domain.NewConfigError("pool", domain.ErrEmptyPool)
	}
	return pool, nil
}

func (b *Builder) retain() bool {
	return b.Rand.Float64() < b.RetainProbability
}
