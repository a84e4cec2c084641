package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// MockTaskStore implements store.TaskStore. Unset Fn fields return zero
// values; TransitionStatusCalls counts calls for verification.
type MockTaskStore struct {
	CreateFn           func(ctx context.Context, task *domain.Task) error
	ListFn             func(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)
	GetByIDFn          func(ctx context.Context, id string) (*domain.Task, error)
	TransitionStatusFn func(ctx context.Context, id string, from, to domain.TaskStatus) (*domain.Task, error)
	DeleteFn           func(ctx context.Context, id string) error

	mu                    sync.Mutex
	TransitionStatusCalls int
	GetByIDCalls          int
	LastFilter            store.TaskFilter
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	m.mu.Lock()
	m.LastFilter = filter
	m.mu.Unlock()

	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []*domain.Task{}, nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	m.GetByIDCalls++
	m.mu.Unlock()

	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrTaskNotFound
}

// TransitionStatus implements the TaskStore interface
func (m *MockTaskStore) TransitionStatus(
	ctx context.Context,
	id string,
	from, to domain.TaskStatus,
) (*domain.Task, error) {
	m.mu.Lock()
	m.TransitionStatusCalls++
	m.mu.Unlock()

	if m.TransitionStatusFn != nil {
		return m.TransitionStatusFn(ctx, id, from, to)
	}
	return nil, store.ErrUpdateFailed
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
