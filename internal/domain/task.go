package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusAssigned  TaskStatus = "assigned"
	TaskStatusCompleted TaskStatus = "completed"
)

// Task validation errors.
var (
	ErrEmptyTaskID   = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTitle    = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrEmptyAssignee = fmt.Errorf("%w: assignee cannot be empty", ErrValidation)
	ErrInvalidStatus = fmt.Errorf("%w: invalid task status", ErrValidation)
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusAssigned || s == TaskStatusCompleted
}

// Task is a unit of work assigned to someone.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Assignee    string     `json:"assignee"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a Task in the assigned state.
func NewTask(title string, description *string, assignee string) (*Task, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	task := &Task{
		ID:          id,
		Title:       title,
		Description: description,
		Assignee:    assignee,
		Status:      TaskStatusAssigned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(t.Assignee) == "" {
		return ErrEmptyAssignee
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	return nil
}
