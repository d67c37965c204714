package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/gibberify/internal/domain"
)

const artifactsTable = "artifacts"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store keeps artifacts in the artifacts table, one row per (kind, key).
type Store struct {
	db DB
}

// NewStore creates a store over db. The schema must already be migrated.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// Get returns the artifact bytes or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, kind domain.ArtifactKind, key string) ([]byte, error) {
	query, args, err := psql.Select("data").
		From(artifactsTable).
		Where(sq.Eq{"kind": kind.String(), "key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var data []byte
	if err := pgxscan.Get(ctx, s.db, &data, query, args...); err != nil {
		return nil, mapError(err, kind, key)
	}
	return data, nil
}

// Put upserts the artifact in a single statement.
func (s *Store) Put(ctx context.Context, kind domain.ArtifactKind, key string, data []byte) error {
	query, args, err := psql.Insert(artifactsTable).
		Columns("kind", "key", "data").
		Values(kind.String(), key, data).
		Suffix("ON CONFLICT (kind, key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return mapError(err, kind, key)
	}
	return nil
}

func (s *Store) List(ctx context.Context, kind domain.ArtifactKind) ([]string, error) {
	query, args, err := psql.Select("key").
		From(artifactsTable).
		Where(sq.Eq{"kind": kind.String()}).
		OrderBy("key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var keys []string
	if err := pgxscan.Select(ctx, s.db, &keys, query, args...); err != nil {
		return nil, mapError(err, kind, "*")
	}
	return keys, nil
}

func (s *Store) Delete(ctx context.Context, kind domain.ArtifactKind, key string) error {
	query, args, err := psql.Delete(artifactsTable).
		Where(sq.Eq{"kind": kind.String(), "key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return mapError(err, kind, key)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	s.db.Close()
	return nil
}
