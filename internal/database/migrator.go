// Package database owns the schema: embedded SQL migrations applied with tern.
package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
)

const versionTable = "schema_version"

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the embedded migration files rooted at their directory.
func Migrations() (fs.FS, error) {
	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	return subtree, nil
}

func newMigrator(ctx context.Context, conn *pgx.Conn) (*tern.Migrator, error) {
	m, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return nil, fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := Migrations()
	if err != nil {
		return nil, err
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return nil, fmt.Errorf("loading database migrations: %w", err)
	}

	return m, nil
}

// Migrate brings the schema to the latest version.
func Migrate(ctx context.Context, conn *pgx.Conn, l *slog.Logger) error {
	return MigrateTo(ctx, conn, l, -1)
}

// MigrateTo moves the schema to version target, up or down. A negative target
// means the latest version.
func MigrateTo(ctx context.Context, conn *pgx.Conn, l *slog.Logger, target int32) error {
	m, err := newMigrator(ctx, conn)
	if err != nil {
		return err
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if target < 0 {
		target = int32(len(m.Migrations))
	}

	if err := m.MigrateTo(ctx, target); err != nil {
		return fmt.Errorf("migrating database schema: %w", err)
	}

	if from == target {
		l.InfoContext(ctx, "Database schema up to date, version "+strconv.Itoa(int(target)))
	} else {
		l.InfoContext(ctx, "Migrated database schema from version "+strconv.Itoa(int(from))+
			" to "+strconv.Itoa(int(target)))
	}

	return nil
}

// Status reports the applied and the latest available schema versions.
func Status(ctx context.Context, conn *pgx.Conn) (current, latest int32, err error) {
	m, err := newMigrator(ctx, conn)
	if err != nil {
		return 0, 0, err
	}

	current, err = m.GetCurrentVersion(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("retrieving current database migration version: %w", err)
	}

	return current, int32(len(m.Migrations)), nil
}
