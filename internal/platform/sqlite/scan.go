package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const taskColumns = `id, title, description, assignee, status, created_at, updated_at`

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		id          string
		description sql.NullString
		status      string
		createdAt   int64
		updatedAt   int64
	)
	if err := row.Scan(&id, &task.Title, &description, &task.Assignee, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt task id %q: %w", id, err)
	}
	task.ID = parsed
	if description.Valid {
		task.Description = &description.String
	}
	task.Status = domain.TaskStatus(status)
	task.CreatedAt = fromNanos(createdAt)
	task.UpdatedAt = fromNanos(updatedAt)
	return &task, nil
}

// parseID validates a client-supplied identifier and returns its canonical form.
func parseID(entity, id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", store.NewInvalidIdentifierFailure(entity, id, err)
	}
	return parsed.String(), nil
}

// likeEscaper escapes LIKE metacharacters; queries declare ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
