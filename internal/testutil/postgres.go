// Package testutil provides a throwaway PostgreSQL schema for integration tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/database"
)

// DatabaseURLEnv names the variable integration tests read their DSN from.
const DatabaseURLEnv = "TEST_DATABASE_URL"

// NewPool creates a fresh schema in the database at TEST_DATABASE_URL,
// migrates it and returns a pool whose connections use it. The schema is
// dropped when the test ends. The test is skipped when no database is
// configured or reachable.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		t.Skip("Skipping integration test: " + DatabaseURLEnv + " is not set")
	}

	ctx := context.Background()

	admin, err := pgx.Connect(ctx, dsn)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to test database: %v", err)
	}
	defer admin.Close(ctx)

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.Exec(ctx, "create schema "+schema)
	require.NoError(t, err)

	t.Cleanup(func() {
		c, err := pgx.Connect(context.Background(), dsn)
		if err != nil {
			return
		}
		defer c.Close(context.Background())
		_, _ = c.Exec(context.Background(), "drop schema "+schema+" cascade")
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema

	migConn, err := pgx.ConnectConfig(ctx, cfg.ConnConfig.Copy())
	require.NoError(t, err)
	defer migConn.Close(ctx)

	require.NoError(t, database.Migrate(ctx, migConn, DiscardLogger()))

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
