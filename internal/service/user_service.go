package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/events"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// RegisteredUser is a newly created account together with its generated
// plaintext password. The password is never stored and is shown only once.
type RegisteredUser struct {
	User     *domain.User
	Password string
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User  *domain.User
	Token auth.Token
}

// UserService provides registration and login.
type UserService interface {
	// Register creates an account for email with a generated password.
	// A taken email surfaces as a store duplicate-key failure.
	Register(ctx context.Context, email string) (*RegisteredUser, error)

	// Login checks credentials and issues a token. An unknown email and a
	// wrong password both return auth.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	users     store.UserStore
	hasher    auth.PasswordHasher
	passwords auth.PasswordGenerator
	tokens    auth.TokenService
	logger    *slog.Logger
	opts      options
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	passwords auth.PasswordGenerator,
	tokens auth.TokenService,
	logger *slog.Logger,
	opts ...Option,
) *UserServiceImpl {
	return &UserServiceImpl{
		users:     users,
		hasher:    hasher,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger.With("component", "user_service"),
		opts:      buildOptions(opts),
	}
}

// Register generates a password, hashes it and stores the new user.
func (s *UserServiceImpl) Register(ctx context.Context, email string) (*RegisteredUser, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	password := s.passwords.Generate()
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user, err := domain.NewUser(email, hashed)
	if err != nil {
		return nil, domainValidation("email", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			log.Debug("attempted to register existing email")
		} else {
			log.Error("failed to save user", "error", err)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", "user_id", user.ID)
	s.opts.publish(ctx, log, events.TypeUserRegistered, events.UserPayload{
		UserID: user.ID.String(),
		Email:  user.Email,
	})

	return &RegisteredUser{User: user, Password: password}, nil
}

// Login verifies email and password and issues a token for the user.
func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", "user_id", user.ID)
		return nil, auth.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, auth.Identity{ID: user.ID.String(), Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("user logged in", "user_id", user.ID)

	return &LoginResult{User: user, Token: token}, nil
}
