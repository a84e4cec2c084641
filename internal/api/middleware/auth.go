package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/apperr"
	"github.com/phrazzld/tasks-api/internal/service/auth"
)

type identityKey struct{}

// Errors returned before the token is looked at.
var (
	ErrAuthMissing   = apperr.WithMessageDetail(apperr.AuthMissing, "authentication required")
	ErrAuthMalformed = apperr.WithMessageDetail(apperr.AuthMalformed, "invalid token")
)

// AuthMiddleware provides bearer-token authentication for routes.
type AuthMiddleware struct {
	tokens auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate verifies the bearer token in the Authorization header and
// stores the caller's identity in the request context. Token failures from
// the TokenService are passed on unchanged.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.identify(r)
		if err != nil {
			shared.RespondWithError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) identify(r *http.Request) (auth.Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return auth.Identity{}, ErrAuthMissing
	}

	// Exactly "Bearer <token>": a single space, case-sensitive scheme.
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return auth.Identity{}, ErrAuthMalformed
	}

	return m.tokens.Verify(r.Context(), parts[1])
}

// IdentityFromContext returns the identity stored by Authenticate.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(auth.Identity)
	return identity, ok
}
