package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/events"
	"github.com/phrazzld/tasks-api/internal/platform/migrations"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// application holds the shared dependencies of a running server so they can
// be released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	router http.Handler
}

// newApplication opens the database, applies pending migrations and wires
// stores, services and the router.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	app := &application{config: cfg, logger: logger, db: db}
	if err := app.init(ctx); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

func (app *application) init(ctx context.Context) error {
	runner, err := migrations.NewRunner(app.db, app.config.Database.Driver, app.logger)
	if err != nil {
		return err
	}
	if _, err := runner.Up(ctx); err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(app.config.Auth)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}
	passwords, err := auth.NewPasswordGenerator()
	if err != nil {
		return fmt.Errorf("failed to create password generator: %w", err)
	}

	userStore, taskStore := newStores(app.config.Database.Driver, app.db, app.logger)

	emitter := events.NewInMemoryEmitter(app.logger)
	emitter.Register(events.NewAuditLogger(app.logger))

	users := service.NewUserService(
		userStore,
		auth.NewBcryptHasher(app.config.Auth.BcryptCost),
		passwords,
		tokens,
		app.logger,
		service.WithEvents(emitter),
	)
	tasks := service.NewTaskService(taskStore, app.logger, service.WithEvents(emitter))

	app.router = api.NewRouter(api.RouterConfig{
		Users:  users,
		Tasks:  tasks,
		Tokens: tokens,
		Logger: app.logger,
	})
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case migrations.DriverPostgres:
		return postgres.Open(ctx, cfg)
	case migrations.DriverSQLite:
		return sqlite.Open(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func newStores(driver string, db *sql.DB, logger *slog.Logger) (store.UserStore, store.TaskStore) {
	if driver == migrations.DriverPostgres {
		return postgres.NewPostgresUserStore(db, logger), postgres.NewPostgresTaskStore(db, logger)
	}
	return sqlite.NewSQLiteUserStore(db, logger), sqlite.NewSQLiteTaskStore(db, logger)
}
