package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// MigrationResult lists the files applied and skipped by Migrate.
type MigrationResult struct {
	Applied []string
	Skipped []string
}

// Migrate applies every *.sql file in dir, in lexical order, that is not
// yet recorded in schema_migrations. Each file runs in its own transaction
// and the first failure stops the run.
func Migrate(ctx context.Context, db *sql.DB, dir string, log *zap.Logger) (*MigrationResult, error) {
	if log == nil {
		log = zap.NewNop()
	}

	files, err := migrationFiles(dir)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return nil, err
	}

	res := &MigrationResult{}
	for _, f := range files {
		if applied[f] {
			res.Skipped = append(res.Skipped, f)
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return res, fmt.Errorf("read %s: %w", f, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			res.Skipped = append(res.Skipped, f)
			continue
		}
		if err := applyMigration(ctx, db, f, string(data)); err != nil {
			return res, err
		}
		log.Info("migration applied", zap.String("file", f))
		res.Applied = append(res.Applied, f)
	}
	return res, nil
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func appliedMigrations(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		out[f] = true
	}
	return out, rows.Err()
}

func applyMigration(ctx context.Context, db *sql.DB, name, content string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, content); err != nil {
		tx.Rollback()
		return fmt.Errorf("apply %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, name); err != nil {
		tx.Rollback()
		return fmt.Errorf("record %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}
