package mocks

import (
	"context"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

// MockUserService implements service.UserService for handler tests
type MockUserService struct {
	RegisterFn func(ctx context.Context, email string) (*service.RegisteredUser, error)
	LoginFn    func(ctx context.Context, email, password string) (*service.LoginResult, error)
}

var _ service.UserService = (*MockUserService)(nil)

// Register implements the service.UserService interface
func (m *MockUserService) Register(ctx context.Context, email string) (*service.RegisteredUser, error) {
	return m.RegisterFn(ctx, email)
}

// Login implements the service.UserService interface
func (m *MockUserService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	return m.LoginFn(ctx, email, password)
}

// MockTaskService implements service.TaskService for handler tests
type MockTaskService struct {
	CreateFn   func(ctx context.Context, in service.CreateTaskInput) (*domain.Task, error)
	ListFn     func(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)
	CompleteFn func(ctx context.Context, id string) (*domain.Task, error)
	DeleteFn   func(ctx context.Context, id string) error
}

var _ service.TaskService = (*MockTaskService)(nil)

// Create implements the service.TaskService interface
func (m *MockTaskService) Create(ctx context.Context, in service.CreateTaskInput) (*domain.Task, error) {
	return m.CreateFn(ctx, in)
}

// List implements the service.TaskService interface
func (m *MockTaskService) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	return m.ListFn(ctx, filter)
}

// Complete implements the service.TaskService interface
func (m *MockTaskService) Complete(ctx context.Context, id string) (*domain.Task, error) {
	return m.CompleteFn(ctx, id)
}

// Delete implements the service.TaskService interface
func (m *MockTaskService) Delete(ctx context.Context, id string) error {
	return m.DeleteFn(ctx, id)
}
