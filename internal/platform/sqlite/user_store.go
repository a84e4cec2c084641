package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// SQLiteUserStore implements store.UserStore on SQLite.
type SQLiteUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteUserStore creates a SQLiteUserStore. If logger is nil, a default logger is used.
func NewSQLiteUserStore(db store.DBTX, logger *slog.Logger) *SQLiteUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteUserStore{db: db, logger: logger.With(slog.String("component", "user_store"))}
}

var _ store.UserStore = (*SQLiteUserStore)(nil)

// Create implements store.UserStore.Create.
func (s *SQLiteUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return store.NewValidationFailure("user", []store.FieldError{{Field: "email", Message: err.Error()}}, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, hashed_password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID.String(),
		user.Email,
		user.HashedPassword,
		toNanos(user.CreatedAt),
		toNanos(user.UpdatedAt),
	)
	if err != nil {
		mapped := MapError(err, "user", nil)
		if errors.Is(mapped, store.ErrDuplicate) {
			log.Debug("user email already exists", slog.String("user_id", user.ID.String()))
		} else {
			log.Error("failed to create user",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
		}
		return mapped
	}

	log.Debug("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *SQLiteUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := parseID("user", id)
	if err != nil {
		return nil, err
	}
	return s.getOne(ctx, `WHERE id = ?`, uid)
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *SQLiteUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, `WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

func (s *SQLiteUserStore) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	var (
		user                 domain.User
		id                   string
		createdAt, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, hashed_password, created_at, updated_at FROM users `+where, arg).
		Scan(&id, &user.Email, &user.HashedPassword, &createdAt, &updatedAt)
	if err != nil {
		mapped := MapError(err, "user", store.ErrUserNotFound)
		if !errors.Is(mapped, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get user", slog.String("error", err.Error()))
		}
		return nil, mapped
	}

	user.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", id, err)
	}
	user.CreatedAt = fromNanos(createdAt)
	user.UpdatedAt = fromNanos(updatedAt)
	return &user, nil
}
