package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/apperr"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/validation"
)

// Errors for requests that match no route.
var (
	ErrRouteNotFound    = apperr.New(apperr.RouteNotFound, "route not found")
	ErrMethodNotAllowed = apperr.New(apperr.MethodNotAllowed, "method not allowed")
)

// RouterConfig holds the dependencies of the HTTP API.
type RouterConfig struct {
	Users     service.UserService
	Tasks     service.TaskService
	Tokens    auth.TokenService
	Validator validation.Validator
	Logger    *slog.Logger
}

// NewRouter builds the application router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Validator == nil {
		cfg.Validator = validation.NewStructValidator()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	authHandler := NewAuthHandler(cfg.Users)
	taskHandler := NewTaskHandler(cfg.Tasks)
	authenticate := middleware.NewAuthMiddleware(cfg.Tokens).Authenticate
	v := cfg.Validator

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewTraceMiddleware(cfg.Logger.With(slog.String("component", "http"))))
	r.Use(middleware.Recoverer)

	r.NotFound(Handle(func(http.ResponseWriter, *http.Request) error { return ErrRouteNotFound }))
	r.MethodNotAllowed(Handle(func(http.ResponseWriter, *http.Request) error { return ErrMethodNotAllowed }))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Hello World!"})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			cfg.Logger.Error("failed to write health check response", "error", err)
		}
	})

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.Validate[RegisterRequest](v)).Post("/register", Handle(authHandler.Register))
		r.With(middleware.Validate[LoginRequest](v)).Post("/login", Handle(authHandler.Login))
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(authenticate)
		r.With(middleware.Validate[CreateTaskRequest](v)).Post("/", Handle(taskHandler.Create))
		r.With(middleware.Validate[ListTasksRequest](v)).Get("/", Handle(taskHandler.List))
		r.Patch("/{id}/complete", Handle(taskHandler.Complete))
		r.Delete("/{id}", Handle(taskHandler.Delete))
	})

	return r
}
