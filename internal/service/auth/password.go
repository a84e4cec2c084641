package auth

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and compares passwords. Hashing is an explicit step
// performed by the user service before anything reaches the store.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil if password matches hashedPassword.
	Compare(hashedPassword, password string) error
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher. A cost outside bcrypt's accepted
// range falls back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare implements PasswordHasher.
func (h *BcryptHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

const (
	generatedPasswordAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// GeneratedPasswordLength is the length of passwords issued at registration.
	GeneratedPasswordLength = 12
)

// PasswordGenerator produces passwords for newly registered users.
type PasswordGenerator interface {
	Generate() string
}

type nanoidGenerator struct {
	next func() string
}

// NewPasswordGenerator returns a generator of random alphanumeric passwords
// of GeneratedPasswordLength characters.
func NewPasswordGenerator() (PasswordGenerator, error) {
	next, err := nanoid.CustomASCII(generatedPasswordAlphabet, GeneratedPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create password generator: %w", err)
	}
	return &nanoidGenerator{next: next}, nil
}

func (g *nanoidGenerator) Generate() string {
	return g.next()
}
