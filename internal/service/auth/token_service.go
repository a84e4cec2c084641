package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// DefaultTokenLifetime applies when neither the caller nor the configuration
// sets a ttl.
const DefaultTokenLifetime = time.Hour

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 32

// Identity is the authenticated principal carried by a token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Token is a signed token and the moment it stops being valid.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	// Issue signs a token for identity. The ttl is taken from WithTTL if
	// given, otherwise from configuration, otherwise DefaultTokenLifetime.
	Issue(ctx context.Context, identity Identity, opts ...IssueOption) (Token, error)

	// Verify checks signature and expiry and returns exactly the identity
	// the token was issued for. Failures are ErrTokenExpired,
	// ErrTokenMalformed or ErrTokenVerificationUnknown.
	Verify(ctx context.Context, token string) (Identity, error)
}

// IssueOption customises a single Issue call.
type IssueOption func(*issueOptions)

type issueOptions struct {
	ttl    time.Duration
	hasTTL bool
}

// WithTTL sets the token lifetime for one call. Zero and negative values are
// honoured and produce an already expired token.
func WithTTL(ttl time.Duration) IssueOption {
	return func(o *issueOptions) {
		o.ttl = ttl
		o.hasTTL = true
	}
}

type tokenClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// hmacTokenService implements TokenService with HS256 JWTs.
type hmacTokenService struct {
	signingKey    []byte
	tokenLifetime time.Duration
	timeFunc      func() time.Time
}

var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a TokenService signing with cfg.JWTSecret.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	return newTokenService(cfg, time.Now)
}

func newTokenService(cfg config.AuthConfig, timeFunc func() time.Time) (*hmacTokenService, error) {
	if len(cfg.JWTSecret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	}
	lifetime := cfg.TokenLifetime
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &hmacTokenService{
		signingKey:    []byte(cfg.JWTSecret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
	}, nil
}

// Issue creates a signed token for identity.
func (s *hmacTokenService) Issue(ctx context.Context, identity Identity, opts ...IssueOption) (Token, error) {
	log := logger.FromContext(ctx)

	o := issueOptions{ttl: s.tokenLifetime}
	for _, opt := range opts {
		opt(&o)
	}

	now := s.timeFunc()
	expiresAt := now.Add(o.ttl)
	claims := tokenClaims{
		UserID: identity.ID,
		Email:  identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign token",
			"error", err,
			"user_id", identity.ID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return Token{}, fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	return Token{Value: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify validates a token and returns the identity it carries.
func (s *hmacTokenService) Verify(ctx context.Context, raw string) (Identity, error) {
	log := logger.FromContext(ctx)

	token, err := jwt.ParseWithClaims(
		raw,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.timeFunc),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "error", err)
			return Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			log.Debug("token validation failed: invalid token", "error", err)
			return Identity{}, ErrTokenMalformed
		default:
			log.Warn("token validation failed: unclassified error",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
			return Identity{}, ErrTokenVerificationUnknown
		}
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return Identity{}, ErrTokenVerificationUnknown
	}
	if claims.UserID == "" || claims.Email == "" {
		log.Debug("token validation failed: missing identity claims", "token_id", claims.ID)
		return Identity{}, ErrTokenMalformed
	}

	return Identity{ID: claims.UserID, Email: claims.Email}, nil
}
