package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// SQLiteTaskStore implements store.TaskStore on SQLite.
type SQLiteTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteTaskStore creates a SQLiteTaskStore. If logger is nil, a default logger is used.
func NewSQLiteTaskStore(db store.DBTX, logger *slog.Logger) *SQLiteTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
		now:    time.Now,
	}
}

var _ store.TaskStore = (*SQLiteTaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *SQLiteTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return store.NewValidationFailure("task", nil, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID.String(),
		task.Title,
		task.Description,
		task.Assignee,
		string(task.Status),
		toNanos(task.CreatedAt),
		toNanos(task.UpdatedAt),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err, "task", nil)
	}
	return nil
}

// List implements store.TaskStore.List.
func (s *SQLiteTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	filter = filter.Normalize()

	var (
		conds []string
		args  []any
	)
	if filter.Title != "" {
		// LIKE is case-insensitive for ASCII in SQLite.
		conds = append(conds, `title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(filter.Title)+"%")
	}
	if filter.Assignee != "" {
		conds = append(conds, "assignee = ?")
		args = append(args, filter.Assignee)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}

	var q strings.Builder
	q.WriteString("SELECT " + taskColumns + " FROM tasks")
	if len(conds) > 0 {
		q.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	dir := "ASC"
	if filter.Order == store.SortDesc {
		dir = "DESC"
	}
	fmt.Fprintf(&q, " ORDER BY created_at %s, id %s LIMIT ? OFFSET ?", dir, dir)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, MapError(err, "task", nil)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0, filter.Limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *SQLiteTaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	tid, err := parseID("task", id)
	if err != nil {
		return nil, err
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, tid))
	if err != nil {
		return nil, MapError(err, "task", store.ErrTaskNotFound)
	}
	return task, nil
}

// TransitionStatus implements store.TaskStore.TransitionStatus with a single
// predicated UPDATE ... RETURNING.
func (s *SQLiteTaskStore) TransitionStatus(
	ctx context.Context,
	id string,
	from, to domain.TaskStatus,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tid, err := parseID("task", id)
	if err != nil {
		return nil, err
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, `
		UPDATE tasks SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?
		RETURNING `+taskColumns,
		string(to), toNanos(s.now()), tid, string(from)))
	if err != nil {
		mapped := MapError(err, "task", store.ErrUpdateFailed)
		if !errors.Is(mapped, store.ErrUpdateFailed) {
			log.Error("failed to transition task status",
				slog.String("error", err.Error()),
				slog.String("task_id", id))
		}
		return nil, mapped
	}

	log.Debug("task status changed",
		slog.String("task_id", id),
		slog.String("from", string(from)),
		slog.String("to", string(to)))
	return task, nil
}

// Delete implements store.TaskStore.Delete.
func (s *SQLiteTaskStore) Delete(ctx context.Context, id string) error {
	tid, err := parseID("task", id)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, tid)
	if err != nil {
		return MapError(err, "task", nil)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}
