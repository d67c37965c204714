// Package sqlite keeps artifacts in a single SQLite file using the pure Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/heartmarshall/gibberify/internal/domain"
)

const (
	driverName     = "sqlite"
	artifactsTable = "artifacts"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is a dataset store over one SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
// Writes are serialised through a single connection.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	dir, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, dir)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, kind domain.ArtifactKind, key string) ([]byte, error) {
	var data []byte
	err := sq.Select("data").
		From(artifactsTable).
		Where(sq.Eq{"kind": kind.String(), "key": key}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&data)
	if err != nil {
		return nil, mapError(err, kind, key)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, kind domain.ArtifactKind, key string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := sq.Insert(artifactsTable).
		Columns("kind", "key", "data").
		Values(kind.String(), key, data).
		Suffix("ON CONFLICT (kind, key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP").
		RunWith(s.db).
		ExecContext(ctx)
	return mapError(err, kind, key)
}

func (s *Store) List(ctx context.Context, kind domain.ArtifactKind) ([]string, error) {
	rows, err := sq.Select("key").
		From(artifactsTable).
		Where(sq.Eq{"kind": kind.String()}).
		OrderBy("key ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, mapError(err, kind, "*")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan %s key: %w", kind, err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, kind, "*")
	}
	return keys, nil
}

func (s *Store) Delete(ctx context.Context, kind domain.ArtifactKind, key string) error {
	_, err := sq.Delete(artifactsTable).
		Where(sq.Eq{"kind": kind.String(), "key": key}).
		RunWith(s.db).
		ExecContext(ctx)
	return mapError(err, kind, key)
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func mapError(err error, kind domain.ArtifactKind, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, key, domain.ErrNotFound)
	}
	if strings.Contains(err.Error(), "constraint failed") {
		return fmt.Errorf("%s %s: %w: %v", kind, key, domain.ErrValidation, err)
	}
	return fmt.Errorf("%s %s: %w", kind, key, err)
}
