package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/gibberify/internal/domain"
)

// errNotMigrated reports a database without the artifacts table.
var errNotMigrated = errors.New("artifacts table missing, run migrations")

// pgCodes maps SQLSTATE codes the store can hit to domain errors.
var pgCodes = map[string]error{
	"23502": domain.ErrValidation, // not_null_violation
	"23514": domain.ErrValidation, // check_violation: unknown kind or empty key
	"42P01": errNotMigrated,       // undefined_table
}

// mapError prefixes err with the artifact it concerns and translates pgx
// errors to domain errors. Context errors keep their identity.
func mapError(err error, kind domain.ArtifactKind, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, key, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := pgCodes[pgErr.Code]; ok {
			return fmt.Errorf("%s %s: %w", kind, key, mapped)
		}
	}

	return fmt.Errorf("%s %s: %w", kind, key, err)
}
