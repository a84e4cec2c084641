package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/tasks-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing
type MockTokenService struct {
	IssueFn  func(ctx context.Context, identity auth.Identity, opts ...auth.IssueOption) (auth.Token, error)
	VerifyFn func(ctx context.Context, token string) (auth.Identity, error)

	// Default values used when functions aren't explicitly defined
	Token     string
	Identity  auth.Identity
	IssueErr  error
	VerifyErr error
}

var _ auth.TokenService = (*MockTokenService)(nil)

// Issue implements the auth.TokenService interface
func (m *MockTokenService) Issue(
	ctx context.Context,
	identity auth.Identity,
	opts ...auth.IssueOption,
) (auth.Token, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, identity, opts...)
	}
	if m.IssueErr != nil {
		return auth.Token{}, m.IssueErr
	}
	return auth.Token{Value: m.Token, ExpiresAt: time.Now().Add(auth.DefaultTokenLifetime)}, nil
}

// Verify implements the auth.TokenService interface
func (m *MockTokenService) Verify(ctx context.Context, token string) (auth.Identity, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	return m.Identity, m.VerifyErr
}

// ErrPasswordMismatch is returned by MockPasswordHasher.Compare.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordHasher "hashes" by prefixing, so tests stay fast and readable.
type MockPasswordHasher struct {
	HashErr error
}

var _ auth.PasswordHasher = MockPasswordHasher{}

// Hash implements the auth.PasswordHasher interface
func (m MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return "hashed:" + password, nil
}

// Compare implements the auth.PasswordHasher interface
func (m MockPasswordHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return ErrPasswordMismatch
	}
	return nil
}

// FixedPasswordGenerator always returns the same password.
type FixedPasswordGenerator string

// Generate implements the auth.PasswordGenerator interface
func (g FixedPasswordGenerator) Generate() string {
	return string(g)
}
