// Package fsstore keeps artifacts as files under a data directory:
// <root>/<kind>/<key>.json, or <key>.json.xz when compression is on.
package fsstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/heartmarshall/gibberify/internal/domain"
)

const (
	extPlain = ".json"
	extXZ    = ".json.xz"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// Store is a dataset store backed by the local filesystem.
type Store struct {
	root     string
	compress bool
}

// New creates the kind directories under root.
func New(root string, compress bool) (*Store, error) {
	for _, kind := range domain.ArtifactKinds() {
		dir := filepath.Join(root, kind.String())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &Store{root: root, compress: compress}, nil
}

// Root returns the data directory.
func (s *Store) Root() string { return s.root }

// Get reads the artifact, accepting either encoding so toggling compression
// does not orphan existing data.
func (s *Store) Get(ctx context.Context, kind domain.ArtifactKind, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkKey(key); err != nil {
		return nil, err
	}

	exts := []string{extPlain, extXZ}
	if s.compress {
		exts = []string{extXZ, extPlain}
	}

	for _, ext := range exts {
		data, err := os.ReadFile(s.path(kind, key, ext))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s %s: %w", kind, key, err)
		}
		if ext == extXZ {
			return decompress(data)
		}
		return data, nil
	}

	return nil, fmt.Errorf("%s %s: %w", kind, key, domain.ErrNotFound)
}

// Put writes the artifact to a temp file in the target directory and renames
// it into place, so readers never see a partial file.
func (s *Store) Put(ctx context.Context, kind domain.ArtifactKind, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}

	ext, stale := extPlain, extXZ
	if s.compress {
		ext, stale = extXZ, extPlain
		var err error
		if data, err = compress(data); err != nil {
			return fmt.Errorf("compress %s %s: %w", kind, key, err)
		}
	}

	dir := filepath.Join(s.root, kind.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s %s: %w", kind, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := osRename(tmpPath, s.path(kind, key, ext)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s %s: %w", kind, key, err)
	}

	if err := os.Remove(s.path(kind, key, stale)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale %s %s: %w", kind, key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, kind domain.ArtifactKind) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.root, kind.String()))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		switch {
		case strings.HasSuffix(name, extXZ):
			keys = append(keys, strings.TrimSuffix(name, extXZ))
		case strings.HasSuffix(name, extPlain):
			keys = append(keys, strings.TrimSuffix(name, extPlain))
		}
	}
	slices.Sort(keys)
	return slices.Compact(keys), nil
}

func (s *Store) Delete(ctx context.Context, kind domain.ArtifactKind, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}

	for _, ext := range []string{extPlain, extXZ} {
		if err := os.Remove(s.path(kind, key, ext)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete %s %s: %w", kind, key, err)
		}
	}
	return nil
}

// Ping checks that the data directory is still there.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", s.root)
	}
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) path(kind domain.ArtifactKind, key, ext string) string {
	return filepath.Join(s.root, kind.String(), key+ext)
}

// checkKey rejects keys that would escape the kind directory or collide with
// temp files.
func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, ".") || strings.ContainsAny(key, `/\`) {
		return domain.NewValidationError("key", fmt.Sprintf("invalid artifact key %q", key))
	}
	return nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xz reader: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xz decompress: %w", err)
	}
	return out, nil
}
