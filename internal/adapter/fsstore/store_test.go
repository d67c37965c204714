package fsstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gibberify/internal/dataset"
	"github.com/heartmarshall/gibberify/internal/dataset/datasettest"
	"github.com/heartmarshall/gibberify/internal/domain"
)

func newStore(t *testing.T, compress bool) *Store {
	t.Helper()
	s, err := New(t.TempDir(), compress)
	require.NoError(t, err)
	return s
}

func TestStore_Suite(t *testing.T) {
	datasettest.RunStoreSuite(t, func(t *testing.T) dataset.Store {
		return newStore(t, false)
	})
}

func TestStore_Suite_Compressed(t *testing.T) {
	datasettest.RunStoreSuite(t, func(t *testing.T) dataset.Store {
		return newStore(t, true)
	})
}

func TestStore_Layout(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, false)

	require.NoError(t, s.Put(ctx, domain.KindDicts, "en-orc", []byte("{}")))

	data, err := os.ReadFile(filepath.Join(s.Root(), "dicts", "en-orc.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestStore_CompressedIsSmallerAndReadable(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, true)

	payload := []byte(`{"2":["te","st","te","st","te","st","te","st","te","st","te","st","te","st"]}`)
	require.NoError(t, s.Put(ctx, domain.KindSyllables, "en", payload))

	raw, err := os.ReadFile(filepath.Join(s.Root(), "syllables", "en.json.xz"))
	require.NoError(t, err)
	assert.NotEqual(t, payload, raw)

	got, err := s.Get(ctx, domain.KindSyllables, "en")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestStore_ToggleCompression(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	plain, err := New(root, false)
	require.NoError(t, err)
	require.NoError(t, plain.Put(ctx, domain.KindWords, "en", []byte(`["a"]`)))

	xzStore, err := New(root, true)
	require.NoError(t, err)

	got, err := xzStore.Get(ctx, domain.KindWords, "en")
	require.NoError(t, err, "plain files stay readable after enabling compression")
	assert.Equal(t, `["a"]`, string(got))

	require.NoError(t, xzStore.Put(ctx, domain.KindWords, "en", []byte(`["b"]`)))
	_, err = os.Stat(filepath.Join(root, "words", "en.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "stale plain file is removed")

	keys, err := xzStore.List(ctx, domain.KindWords)
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, keys)
}

func TestStore_FailedRenameLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, false)

	orig := osRename
	osRename = func(string, string) error { return errors.New("disk full") }
	t.Cleanup(func() { osRename = orig })

	err := s.Put(ctx, domain.KindDicts, "en-orc", []byte("{}"))
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(s.Root(), "dicts"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = s.Get(ctx, domain.KindDicts, "en-orc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListIgnoresTempFiles(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, false)

	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "dicts", ".artifact-123"), []byte("x"), 0o644))
	require.NoError(t, s.Put(ctx, domain.KindDicts, "en-orc", []byte("{}")))

	keys, err := s.List(ctx, domain.KindDicts)
	require.NoError(t, err)
	assert.Equal(t, []string{"en-orc"}, keys)
}

func TestStore_RejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, false)

	for _, key := range []string{"", "../escape", ".hidden", `a\b`} {
		err := s.Put(ctx, domain.KindWords, key, []byte("[]"))
		assert.ErrorIs(t, err, domain.ErrValidation, "key %q", key)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newStore(t, false)

	_, err := s.Get(ctx, domain.KindWords, "en")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Put(ctx, domain.KindWords, "en", nil), context.Canceled)
}

func TestStore_PingMissingRoot(t *testing.T) {
	s := newStore(t, false)
	require.NoError(t, os.RemoveAll(s.Root()))
	assert.Error(t, s.Ping(context.Background()))
}
