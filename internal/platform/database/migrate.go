package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const createMigrationsTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const appliedMigrationsSQL = `SELECT version FROM schema_migrations`

const recordMigrationSQL = `INSERT INTO schema_migrations (version) VALUES ($1)`

// Migrate applies every *.sql file in fsys not yet recorded in
// schema_migrations, in file name order, each in its own transaction.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS) (int, error) {
	if _, err := db.ExecContext(ctx, createMigrationsTableSQL); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", describe(err))
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return 0, err
	}
	sort.Strings(files)

	n := 0
	for _, name := range files {
		version := strings.TrimSuffix(name, ".sql")
		if applied[version] {
			continue
		}

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return n, fmt.Errorf("read migration %s: %w", name, err)
		}

		if err := apply(ctx, db, version, string(body)); err != nil {
			return n, fmt.Errorf("migration %s: %w", name, describe(err))
		}

		logrus.WithField("version", version).Info("migration applied")
		n++
	}

	return n, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, appliedMigrationsSQL)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", describe(err))
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out[v] = true
	}
	return out, rows.Err()
}

func apply(ctx context.Context, db *sql.DB, version, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, recordMigrationSQL, version); err != nil {
		return err
	}
	return tx.Commit()
}

// describe adds the SQLSTATE to server errors.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%w (sqlstate %s)", err, pqErr.Code)
	}
	return err
}
