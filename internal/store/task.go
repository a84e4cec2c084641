package store

import (
	"context"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// Listing defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// SortOrder orders listings by creation time.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TaskFilter narrows a task listing. Zero values mean "no constraint".
type TaskFilter struct {
	// Title matches as a case-insensitive substring.
	Title    string
	Assignee string
	Status   domain.TaskStatus
	Page     int
	Limit    int
	Order    SortOrder
}

// Normalize fills defaults and clamps Page and Limit into range.
func (f TaskFilter) Normalize() TaskFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Order != SortDesc {
		f.Order = SortAsc
	}
	return f
}

// Offset is the number of rows skipped for the filter's page.
func (f TaskFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// TaskStore defines the interface for task data persistence.
//
// Every method taking an id returns a Failure of kind
// FailureInvalidIdentifier when id is not a valid task identifier.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// List returns tasks matching the filter ordered by creation time.
	// Returns an empty slice when nothing matches.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id string) (*domain.Task, error)

	// TransitionStatus atomically sets the status of task id to `to` only if
	// its current status is `from`, and returns the updated task. The check
	// and the write happen in a single statement, so of several concurrent
	// callers exactly one succeeds. Returns ErrUpdateFailed when no row
	// matched; the caller decides whether that means missing or wrong state.
	TransitionStatus(ctx context.Context, id string, from, to domain.TaskStatus) (*domain.Task, error)

	// Delete removes a task. Returns ErrTaskNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}
