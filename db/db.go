// Package db embeds the SQL migrations and applies them with goose.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var Migrations embed.FS

const tableName = "schema_migrations"

// Dialect maps a configured database driver to its goose dialect and
// migrations directory.
func Dialect(driver string) (dialect, dir string, err error) {
	switch driver {
	case "postgres":
		return "postgres", "migrations/postgres", nil
	case "sqlite":
		return "sqlite3", "migrations/sqlite", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate runs command ("up", "down", "status", ...) against db.
func Migrate(ctx context.Context, db *sql.DB, driver, command string) error {
	dialect, dir, err := Dialect(driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(Migrations)
	goose.SetTableName(tableName)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, dir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
