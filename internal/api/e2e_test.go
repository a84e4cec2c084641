package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/phrazzld/tasks-api/internal/api"
	"github.com/phrazzld/tasks-api/internal/apperr"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStack wires the real services over a fresh SQLite database.
func newStack(t *testing.T) http.Handler {
	t.Helper()

	db := testdb.OpenSQLite(t)
	log := discardLogger()

	tokens, err := auth.NewTokenService(config.AuthConfig{JWTSecret: strings.Repeat("k", 32)})
	require.NoError(t, err)
	passwords, err := auth.NewPasswordGenerator()
	require.NoError(t, err)

	users := service.NewUserService(
		sqlite.NewSQLiteUserStore(db, log),
		auth.NewBcryptHasher(4),
		passwords,
		tokens,
		log,
	)
	tasks := service.NewTaskService(sqlite.NewSQLiteTaskStore(db, log), log)

	return api.NewRouter(api.RouterConfig{Users: users, Tasks: tasks, Tokens: tokens, Logger: log})
}

func send(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestEndToEnd(t *testing.T) {
	h := newStack(t)

	// register, then log in with the generated password
	rec := send(t, h, http.MethodPost, "/auth/register", "", `{"email":"Erin@Example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var reg api.RegisterResponse
	decodeInto(t, rec, &reg)
	assert.Equal(t, "erin@example.com", reg.Email)
	assert.Len(t, reg.Password, auth.GeneratedPasswordLength)

	rec = send(t, h, http.MethodPost, "/auth/register", "", `{"email":"erin@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []apperr.Detail{{Field: "email", Message: "email already exists"}}, envelope(t, rec).Details)

	rec = send(t, h, http.MethodPost, "/auth/login", "", `{"email":"erin@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = send(t, h, http.MethodPost, "/auth/login", "",
		`{"email":"erin@example.com","password":"`+reg.Password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login api.LoginResponse
	decodeInto(t, rec, &login)
	require.NotEmpty(t, login.Token)

	// no header
	rec = send(t, h, http.MethodPost, "/tasks", "", `{"title":"Buy milk","assignee":"erin"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	noAuth := envelope(t, rec)
	assert.Equal(t, "authentication required", noAuth.Message)
	assert.NotEmpty(t, noAuth.Details)

	// forged token
	rec = send(t, h, http.MethodGet, "/tasks", login.Token+"x", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", envelope(t, rec).Message)

	// create
	rec = send(t, h, http.MethodPost, "/tasks", login.Token, `{"title":"Buy milk","assignee":"erin"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task api.TaskResponse
	decodeInto(t, rec, &task)
	assert.Equal(t, "assigned", string(task.Status))
	assert.Nil(t, task.Description)

	// list
	rec = send(t, h, http.MethodGet, "/tasks?title=MILK", login.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []api.TaskResponse
	decodeInto(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, task.ID, listed[0].ID)

	// complete twice
	rec = send(t, h, http.MethodPatch, "/tasks/"+task.ID+"/complete", login.Token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)

	rec = send(t, h, http.MethodPatch, "/tasks/"+task.ID+"/complete", login.Token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Task "+task.ID+" is already completed", envelope(t, rec).Message)

	rec = send(t, h, http.MethodPatch, "/tasks/not-a-uuid/complete", login.Token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.MessageInvalidIdentifier, envelope(t, rec).Message)

	// delete
	rec = send(t, h, http.MethodDelete, "/tasks/"+task.ID, login.Token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = send(t, h, http.MethodDelete, "/tasks/"+task.ID, login.Token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task "+task.ID+" not found", envelope(t, rec).Message)

	rec = send(t, h, http.MethodPatch, "/tasks/"+task.ID+"/complete", login.Token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEndToEndConcurrentCompletion(t *testing.T) {
	h := newStack(t)

	rec := send(t, h, http.MethodPost, "/auth/register", "", `{"email":"race@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var reg api.RegisterResponse
	decodeInto(t, rec, &reg)

	rec = send(t, h, http.MethodPost, "/auth/login", "",
		`{"email":"race@example.com","password":"`+reg.Password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login api.LoginResponse
	decodeInto(t, rec, &login)

	rec = send(t, h, http.MethodPost, "/tasks", login.Token, `{"title":"Contended","assignee":"x"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var task api.TaskResponse
	decodeInto(t, rec, &task)

	const clients = 12
	codes := make([]int, clients)
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPatch, "/tasks/"+task.ID+"/complete", nil)
			req.Header.Set("Authorization", "Bearer "+login.Token)
			r := httptest.NewRecorder()
			h.ServeHTTP(r, req)
			codes[i] = r.Code
		}(i)
	}
	wg.Wait()

	counts := map[int]int{}
	for _, c := range codes {
		counts[c]++
	}
	assert.Equal(t, map[int]int{http.StatusOK: 1, http.StatusBadRequest: clients - 1}, counts)
}
