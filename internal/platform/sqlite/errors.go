package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/phrazzld/tasks-api/internal/store"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// "UNIQUE constraint failed: users.email" or "... : t.a, t.b"
	uniqueColumns   = regexp.MustCompile(`UNIQUE constraint failed: ([\w., ]+)`)
	notNullColumn   = regexp.MustCompile(`NOT NULL constraint failed: [\w]+\.(\w+)`)
	checkConstraint = regexp.MustCompile(`CHECK constraint failed: (\w+)`)
)

// MapError maps a database error to a classified store error for entity.
// sql.ErrNoRows becomes notFound; constraint violations become *store.Failure.
// Anything else is returned unchanged.
func MapError(err error, entity string, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		if notFound == nil {
			notFound = store.ErrNotFound
		}
		return notFound
	}

	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return store.NewDuplicateKeyFailure(entity, uniqueFields(sqliteErr.Error()), err)
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		var violations []store.FieldError
		if m := notNullColumn.FindStringSubmatch(sqliteErr.Error()); m != nil {
			violations = append(violations, store.FieldError{Field: m[1], Message: m[1] + " is required"})
		}
		return store.NewValidationFailure(entity, violations, err)
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		var violations []store.FieldError
		if m := checkConstraint.FindStringSubmatch(sqliteErr.Error()); m != nil {
			violations = append(violations, store.FieldError{
				Field:   m[1],
				Message: fmt.Sprintf("check constraint %s failed", m[1]),
			})
		}
		return store.NewValidationFailure(entity, violations, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return store.NewValidationFailure(entity, nil, err)
	}

	return err
}

func uniqueFields(msg string) []string {
	m := uniqueColumns.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	var fields []string
	for _, col := range strings.Split(m[1], ",") {
		col = strings.TrimSpace(col)
		if _, name, ok := strings.Cut(col, "."); ok {
			col = name
		}
		if col != "" {
			fields = append(fields, col)
		}
	}
	return fields
}
