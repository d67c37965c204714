// Package testhelper provides a PostgreSQL artifact database for
// integration tests. GIBBERIFY_TEST_DSN points the tests at an existing
// server; otherwise one container is started per test binary.
package testhelper

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/gibberify/internal/adapter/postgres"
	"github.com/heartmarshall/gibberify/internal/config"
)

// EnvDSN overrides the container with an existing database.
const EnvDSN = "GIBBERIFY_TEST_DSN"

var (
	once    sync.Once
	dbCfg   config.DatabaseConfig
	initErr error
)

// Pool returns a migrated pool with an empty artifacts table. The pool is
// closed on cleanup; the container lives until the process exits.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	once.Do(func() { dbCfg, initErr = setup() })
	if initErr != nil {
		t.Fatalf("testhelper: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		t.Fatalf("testhelper: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, "TRUNCATE artifacts"); err != nil {
		t.Fatalf("testhelper: truncate artifacts: %v", err)
	}
	return pool
}

func setup() (config.DatabaseConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := config.DatabaseConfig{
		DSN:             os.Getenv(EnvDSN),
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	}
	if cfg.DSN == "" {
		dsn, err := startContainer(ctx)
		if err != nil {
			return cfg, err
		}
		cfg.DSN = dsn
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return cfg, err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func startContainer(ctx context.Context) (string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "gibberify",
				"POSTGRES_PASSWORD": "gibberify",
				"POSTGRES_DB":       "gibberify",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("container port: %w", err)
	}
	return fmt.Sprintf("postgres://gibberify:gibberify@%s:%s/gibberify?sslmode=disable", host, port.Port()), nil
}
