package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/apperr"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/events"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// CreateTaskInput holds the fields of a new task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Assignee    string
}

// TaskService provides task operations.
type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)

	// Complete moves task id from assigned to completed. Of any number of
	// concurrent calls for the same task exactly one succeeds; the others
	// get a TaskAlreadyCompleted error. A missing task is TaskNotFound.
	Complete(ctx context.Context, id string) (*domain.Task, error)

	Delete(ctx context.Context, id string) error
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
	opts   options
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger, opts ...Option) *TaskServiceImpl {
	return &TaskServiceImpl{
		tasks:  tasks,
		logger: logger.With("component", "task_service"),
		opts:   buildOptions(opts),
	}
}

// Create stores a new task in the assigned state.
func (s *TaskServiceImpl) Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(in.Title, in.Description, in.Assignee)
	if err != nil {
		field := "title"
		if errors.Is(err, domain.ErrEmptyAssignee) {
			field = "assignee"
		}
		return nil, domainValidation(field, err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to save task", "error", err)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Info("task created", "task_id", task.ID, "assignee", task.Assignee)
	s.opts.publish(ctx, log, events.TypeTaskCreated, events.TaskPayload{
		TaskID:   task.ID.String(),
		Assignee: task.Assignee,
		Status:   string(task.Status),
	})

	return task, nil
}

// List returns tasks matching filter.
func (s *TaskServiceImpl) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx, filter.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Complete performs the assigned -> completed transition as one conditional
// update. Only when nothing matched is the task re-read, and then only to
// pick the right error.
func (s *TaskServiceImpl) Complete(ctx context.Context, id string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.TransitionStatus(ctx, id, domain.TaskStatusAssigned, domain.TaskStatusCompleted)
	if err == nil {
		log.Info("task completed", "task_id", task.ID)
		s.opts.publish(ctx, log, events.TypeTaskCompleted, events.TaskPayload{
			TaskID:   task.ID.String(),
			Assignee: task.Assignee,
			Status:   string(task.Status),
		})
		return task, nil
	}
	if !errors.Is(err, store.ErrUpdateFailed) {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	current, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, apperr.NewTaskNotFound(id)
		}
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	if current.Status == domain.TaskStatusCompleted {
		log.Debug("task already completed", "task_id", id)
		return nil, apperr.NewTaskAlreadyCompleted(id)
	}

	return nil, fmt.Errorf("failed to complete task %s: unexpected status %q", id, current.Status)
}

// Delete removes a task.
func (s *TaskServiceImpl) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return apperr.NewTaskNotFound(id)
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	log.Info("task deleted", "task_id", id)
	s.opts.publish(ctx, log, events.TypeTaskDeleted, events.TaskPayload{TaskID: id})
	return nil
}
