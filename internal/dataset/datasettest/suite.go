// Package datasettest holds a behavioral test suite every dataset.Store
// implementation must pass.
package datasettest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gibberify/internal/dataset"
	"github.com/heartmarshall/gibberify/internal/domain"
)

// RunStoreSuite exercises a Store created by newStore. Each subtest gets a
// fresh store.
func RunStoreSuite(t *testing.T, newStore func(t *testing.T) dataset.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, domain.KindWords, "en")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, domain.KindWords, "en", []byte(`["test"]`)))

		got, err := s.Get(ctx, domain.KindWords, "en")
		require.NoError(t, err)
		assert.Equal(t, `["test"]`, string(got))

		_, err = s.Get(ctx, domain.KindSyllables, "en")
		assert.ErrorIs(t, err, domain.ErrNotFound, "kinds are separate namespaces")
	})

	t.Run("overwrite", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, domain.KindDicts, "en-orc", []byte("old")))
		require.NoError(t, s.Put(ctx, domain.KindDicts, "en-orc", []byte("new")))

		got, err := s.Get(ctx, domain.KindDicts, "en-orc")
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))
	})

	t.Run("list sorted", func(t *testing.T) {
		s := newStore(t)
		for _, key := range []string{"it-orc", "en-orc", "orc-en"} {
			require.NoError(t, s.Put(ctx, domain.KindDicts, key, []byte("{}")))
		}
		require.NoError(t, s.Put(ctx, domain.KindWords, "en", []byte("[]")))

		keys, err := s.List(ctx, domain.KindDicts)
		require.NoError(t, err)
		assert.Equal(t, []string{"en-orc", "it-orc", "orc-en"}, keys)

		keys, err = s.List(ctx, domain.KindPatterns)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, domain.KindSyllables, "en", []byte("{}")))
		require.NoError(t, s.Delete(ctx, domain.KindSyllables, "en"))
		require.NoError(t, s.Delete(ctx, domain.KindSyllables, "en"), "deleting twice is fine")

		_, err := s.Get(ctx, domain.KindSyllables, "en")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("large value", func(t *testing.T) {
		s := newStore(t)
		big := make([]byte, 1<<20)
		for i := range big {
			big[i] = byte('a' + i%26)
		}
		require.NoError(t, s.Put(ctx, domain.KindPatterns, "en", big))
		got, err := s.Get(ctx, domain.KindPatterns, "en")
		require.NoError(t, err)
		assert.Equal(t, big, got)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		s := newStore(t)
		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				key := fmt.Sprintf("l%d-orc", i)
				assert.NoError(t, s.Put(ctx, domain.KindDicts, key, []byte(key)))
			}()
		}
		wg.Wait()

		keys, err := s.List(ctx, domain.KindDicts)
		require.NoError(t, err)
		assert.Len(t, keys, 8)
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(ctx))
	})
}
