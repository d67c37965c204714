// Package badgerstore keeps artifacts in an embedded Badger key-value store.
// Keys are "<kind>/<key>".
package badgerstore

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/heartmarshall/gibberify/internal/domain"
)

// Store implements dataset.Store using BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens the database in dir. An empty dir gives an in-memory store.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, kind domain.ArtifactKind, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(itemKey(kind, key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s %s: %w", kind, key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", kind, key, err)
	}
	return value, nil
}

// Put writes the value in its own transaction; Badger commits are atomic.
func (s *Store) Put(ctx context.Context, kind domain.ArtifactKind, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return domain.NewValidationError("key", "required")
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(itemKey(kind, key), data)
	})
	if err != nil {
		return fmt.Errorf("put %s %s: %w", kind, key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, kind domain.ArtifactKind) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := kindPrefix(kind)
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			k := it.Item().Key()
			keys = append(keys, string(k[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return keys, nil
}

func (s *Store) Delete(ctx context.Context, kind domain.ArtifactKind, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return nil
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(itemKey(kind, key))
	})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func kindPrefix(kind domain.ArtifactKind) []byte {
	return []byte(kind.String() + "/")
}

func itemKey(kind domain.ArtifactKind, key string) []byte {
	return append(kindPrefix(kind), key...)
}
