package testdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/ciutil"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/migrations"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds setup operations against the test database.
const TestTimeout = 10 * time.Second

// GetTestDatabaseURL returns the PostgreSQL URL for integration tests.
// It checks DATABASE_URL and TASKS_TEST_DB_URL in that order.
func GetTestDatabaseURL() string {
	return ciutil.TestDatabaseURL()
}

// OpenSQLite returns a migrated SQLite database in a temporary directory.
// It is closed when the test ends.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sqlite.Open(ctx, config.DatabaseConfig{
		Driver: migrations.DriverSQLite,
		URL:    "file:" + filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err, "Failed to open sqlite database")
	t.Cleanup(func() { _ = db.Close() })

	migrate(ctx, t, db, migrations.DriverSQLite)
	return db
}

// OpenPostgres returns a migrated PostgreSQL connection. Without a database
// URL the test is skipped, or fails when running in CI.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()

	url := GetTestDatabaseURL()
	if url == "" {
		if ciutil.IsCI() {
			t.Fatal("DATABASE_URL or TASKS_TEST_DB_URL must be set for integration tests in CI")
		}
		t.Skip("DATABASE_URL or TASKS_TEST_DB_URL not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{
		Driver:       migrations.DriverPostgres,
		URL:          url,
		MaxOpenConns: 10,
	})
	require.NoError(t, err, "Failed to open postgres database")
	t.Cleanup(func() { _ = db.Close() })

	migrate(ctx, t, db, migrations.DriverPostgres)
	return db
}

func migrate(ctx context.Context, t *testing.T, db *sql.DB, driver string) {
	t.Helper()

	runner, err := migrations.NewRunner(db, driver, nil)
	require.NoError(t, err, "Failed to create migration runner")
	_, err = runner.Up(ctx)
	require.NoError(t, err, "Failed to run migrations")
}
