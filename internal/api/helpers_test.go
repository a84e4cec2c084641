package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/tasks-api/internal/api"
	"github.com/phrazzld/tasks-api/internal/apperr"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

var testIdentity = auth.Identity{ID: "0190b2a4-0000-7000-8000-000000000001", Email: "alice@example.com"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// acceptingTokens accepts only testToken.
func acceptingTokens() *mocks.MockTokenService {
	return &mocks.MockTokenService{
		VerifyFn: func(_ context.Context, token string) (auth.Identity, error) {
			if token != testToken {
				return auth.Identity{}, auth.ErrTokenMalformed
			}
			return testIdentity, nil
		},
	}
}

func newTestRouter(users *mocks.MockUserService, tasks *mocks.MockTaskService) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Users:  users,
		Tasks:  tasks,
		Tokens: acceptingTokens(),
		Logger: discardLogger(),
	})
}

func do(t *testing.T, h http.Handler, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) apperr.Normalized {
	t.Helper()
	var body apperr.Normalized
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
