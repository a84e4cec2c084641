package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/phrazzld/tasks-api/internal/config"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var pragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

// DSN appends the pragmas the stores rely on to a sqlite URL such as
// "file:tasks.db".
func DSN(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	params := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}
	return url + sep + strings.Join(params, "&")
}

// Open opens the database described by cfg.URL on a single connection.
// One connection keeps in-memory databases alive for the life of the pool
// and turns concurrent writers into a queue instead of SQLITE_BUSY errors.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}
