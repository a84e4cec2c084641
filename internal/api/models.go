package api

import (
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
)

// Request shapes. Each is validated by middleware.Validate before the
// handler runs; region fields are Body, Query and Params.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
	}
}

// ValidationMessages implements validation.Messager.
func (RegisterRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"body.email.required": "email is not valid",
		"body.email.email":    "email is not valid",
	}
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Body struct {
		Email    *string `json:"email"    validate:"required"`
		Password *string `json:"password" validate:"required"`
	}
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Body struct {
		Title       *string `json:"title"       validate:"required,min=1"`
		Description *string `json:"description"`
		Assignee    *string `json:"assignee"    validate:"required,min=1"`
	}
}

// ValidationMessages implements validation.Messager.
func (CreateTaskRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"body.title.min":    "title is not empty",
		"body.assignee.min": "assignee is not empty",
	}
}

// ListTasksRequest defines the query of the task listing. Page and limit
// stay strings so that "abc" is a validation error rather than a decode error.
type ListTasksRequest struct {
	Query struct {
		Title    string `query:"title"    validate:"omitempty,min=3"`
		Assignee string `query:"assignee"`
		Status   string `query:"status"   validate:"omitempty,oneof=assigned completed"`
		Page     string `query:"page"     validate:"omitempty,number"`
		Limit    string `query:"limit"    validate:"omitempty,number"`
		Order    string `query:"order"    validate:"omitempty,oneof=asc desc"`
	}
}

// ValidationMessages implements validation.Messager.
func (ListTasksRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"query.title.min": "title search term must be at least 3 characters long",
	}
}

// Responses.

// MessageResponse is a body carrying a single message.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterResponse returns the new account and its generated password.
// The password is shown exactly once.
type RegisterResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	Token string `json:"token"`
	// ExpiresAt is the RFC 3339 time the token stops being accepted.
	ExpiresAt string `json:"expires_at"`
}

// TaskResponse is the public representation of a task.
type TaskResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description,omitempty"`
	Assignee    string            `json:"assignee"`
	Status      domain.TaskStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

func newRegisterResponse(reg *service.RegisteredUser) RegisterResponse {
	return RegisterResponse{
		ID:       reg.User.ID.String(),
		Email:    reg.User.Email,
		Password: reg.Password,
	}
}

func newLoginResponse(token auth.Token) LoginResponse {
	return LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

func newTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Assignee:    task.Assignee,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
	}
}

func newTaskResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, newTaskResponse(task))
	}
	return out
}
