package postgres

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigrations(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestMigrate_AppliesPendingInOrder(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	dir := writeMigrations(t, map[string]string{
		"002_email_triggers.sql": "CREATE TABLE email_triggers (progress_day INT);",
		"001_subscriptions.sql":  "CREATE TABLE subscriptions (id BIGSERIAL);",
		"003_page_counts.sql":    "CREATE TABLE page_counts (href TEXT);",
		"README.md":              "not a migration",
	})

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT filename FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"filename"}).AddRow("001_subscriptions.sql"))

	for _, f := range []string{"002_email_triggers.sql", "003_page_counts.sql"} {
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(f).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
	}

	res, err := Migrate(context.Background(), db, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"002_email_triggers.sql", "003_page_counts.sql"}, res.Applied)
	assert.Equal(t, []string{"001_subscriptions.sql"}, res.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_FailureRollsBackAndStops(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	dir := writeMigrations(t, map[string]string{
		"001_bad.sql":  "CREATE TABLE broken (",
		"002_next.sql": "CREATE TABLE next (id INT);",
	})

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT filename FROM schema_migrations").WillReturnRows(sqlmock.NewRows([]string{"filename"}))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE broken").WillReturnError(errors.New("syntax error at end of input"))
	mock.ExpectRollback()

	res, err := Migrate(context.Background(), db, dir, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply 001_bad.sql")
	assert.Empty(t, res.Applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_MissingDir(t *testing.T) {
	db, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := Migrate(context.Background(), db, filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}
