// Package migrations embeds the schema for each supported database and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedded embed.FS

// Supported drivers, matching config.DatabaseConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Status describes one migration and whether it has been applied.
type Status struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Runner applies the embedded migrations for one driver.
type Runner struct {
	provider *goose.Provider
	logger   *slog.Logger
}

// NewRunner creates a Runner for db using the migrations of driver.
func NewRunner(db *sql.DB, driver string, logger *slog.Logger) (*Runner, error) {
	var dialect goose.Dialect
	switch driver {
	case DriverPostgres:
		dialect = goose.DialectPostgres
	case DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	fsys, err := fs.Sub(embedded, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s migrations: %w", driver, err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		provider: provider,
		logger:   logger.With(slog.String("component", "migrations"), slog.String("driver", driver)),
	}, nil
}

// Up applies all pending migrations and returns how many ran.
func (r *Runner) Up(ctx context.Context) (int, error) {
	start := time.Now()
	results, err := r.provider.Up(ctx)
	for _, res := range results {
		r.logger.Info("applied migration",
			slog.Int64("version", res.Source.Version),
			slog.String("file", path.Base(res.Source.Path)),
			slog.Int64("duration_ms", res.Duration.Milliseconds()))
	}
	if err != nil {
		r.logger.Error("migration failed", slog.String("error", err.Error()))
		return len(results), fmt.Errorf("failed to apply migrations: %w", err)
	}

	r.logger.Info("database schema up to date",
		slog.Int("applied", len(results)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return len(results), nil
}

// Status reports every known migration in version order.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]Status, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, Status{
			Version:   st.Source.Version,
			Name:      path.Base(st.Source.Path),
			Applied:   st.State == goose.StateApplied,
			AppliedAt: st.AppliedAt,
		})
	}
	return out, nil
}
