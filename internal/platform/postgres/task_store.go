package postgres

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

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresTaskStore creates a new PostgresTaskStore.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
		now:    time.Now,
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return store.NewValidationFailure("task", nil, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		task.ID,
		task.Title,
		task.Description,
		task.Assignee,
		string(task.Status),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err, "task", nil)
	}

	log.Debug("task created", slog.String("task_id", task.ID.String()))
	return nil
}

// List implements store.TaskStore.List.
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	filter = filter.Normalize()

	var (
		conds []string
		args  []any
	)
	if filter.Title != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Title)+"%")
		conds = append(conds, "title ILIKE "+placeholder(len(args)))
	}
	if filter.Assignee != "" {
		args = append(args, filter.Assignee)
		conds = append(conds, "assignee = "+placeholder(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, "status = "+placeholder(len(args)))
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
	fmt.Fprintf(&q, " ORDER BY created_at %s, id %s", dir, dir)
	args = append(args, filter.Limit, filter.Offset())
	fmt.Fprintf(&q, " LIMIT %s OFFSET %s", placeholder(len(args)-1), placeholder(len(args)))

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
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
func (s *PostgresTaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	tid, err := parseID("task", id)
	if err != nil {
		return nil, err
	}

	task, err := scanTask(s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, tid))
	if err != nil {
		return nil, MapError(err, "task", store.ErrTaskNotFound)
	}
	return task, nil
}

// TransitionStatus implements store.TaskStore.TransitionStatus with a single
// predicated UPDATE. Row locking makes concurrent callers serialize on the
// row, and the loser re-evaluates the predicate against the committed status.
func (s *PostgresTaskStore) TransitionStatus(
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
		UPDATE tasks SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING `+taskColumns,
		string(to), s.now().UTC(), tid, string(from)))
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
func (s *PostgresTaskStore) Delete(ctx context.Context, id string) error {
	tid, err := parseID("task", id)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, tid)
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
