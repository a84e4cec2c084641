package api

import (
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/service"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	users service.UserService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) error {
	req := middleware.Validated[RegisterRequest](r)

	reg, err := h.users.Register(r.Context(), req.Body.Email)
	if err != nil {
		return err
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newRegisterResponse(reg))
	return nil
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	req := middleware.Validated[LoginRequest](r)

	res, err := h.users.Login(r.Context(), *req.Body.Email, *req.Body.Password)
	if err != nil {
		return err
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newLoginResponse(res.Token))
	return nil
}
