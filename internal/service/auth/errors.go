package auth

import "github.com/phrazzld/tasks-api/internal/apperr"

// Token verification failures. Each is already classified, so callers
// return them as-is.
var (
	// ErrTokenExpired indicates the token's exp claim has passed.
	ErrTokenExpired = apperr.WithMessageDetail(apperr.TokenExpired, "token expired")

	// ErrTokenMalformed indicates a bad encoding, a bad signature, an
	// unexpected algorithm or missing identity claims.
	ErrTokenMalformed = apperr.WithMessageDetail(apperr.TokenMalformed, "invalid token")

	// ErrTokenVerificationUnknown covers every other verification failure.
	ErrTokenVerificationUnknown = apperr.WithMessageDetail(
		apperr.TokenVerificationUnknown,
		"unknown token validation error",
	)

	// ErrInvalidCredentials is returned by login for an unknown email or a
	// wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = apperr.New(
		apperr.InvalidCredentials,
		"authentication failed",
		apperr.Detail{Message: "invalid credentials"},
	)
)
