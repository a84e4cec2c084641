package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const taskColumns = `id, title, description, assignee, status, created_at, updated_at`

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		status      string
	)
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Assignee,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if description.Valid {
		task.Description = &description.String
	}
	task.Status = domain.TaskStatus(status)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}

// parseID converts a client-supplied identifier into a UUID.
func parseID(entity, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, store.NewInvalidIdentifierFailure(entity, id, err)
	}
	return parsed, nil
}

// likeEscaper escapes LIKE metacharacters so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
