// Package dataset persists generated artifacts (word pools, syllable pools,
// dictionaries and hyphenation patterns) in a versioned JSON envelope over
// a pluggable byte store.
package dataset

import (
	"context"

	"github.com/heartmarshall/gibberify/internal/domain"
)

// Store is a flat byte store addressed by (kind, key). Implementations must
// make Put atomic: readers see either the old or the new value, never a
// partial write.
type Store interface {
	// Get returns domain.ErrNotFound when nothing is stored under key.
	Get(ctx context.Context, kind domain.ArtifactKind, key string) ([]byte, error)
	Put(ctx context.Context, kind domain.ArtifactKind, key string, data []byte) error
	// List returns the keys of kind in ascending order.
	List(ctx context.Context, kind domain.ArtifactKind) ([]string, error)
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, kind domain.ArtifactKind, key string) error
	Ping(ctx context.Context) error
	Close() error
}
