package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasks-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode       = "23505"
	foreignKeyViolationCode   = "23503"
	checkViolationCode        = "23514"
	notNullViolationCode      = "23502"
	invalidTextRepresentation = "22P02"
)

// keyDetail matches the column list in a unique violation detail such as
// "Key (email)=(a@b.c) already exists."
var keyDetail = regexp.MustCompile(`Key \(([^)]+)\)=`)

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

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		return store.NewDuplicateKeyFailure(entity, duplicateFields(pgErr), err)
	case notNullViolationCode:
		field := pgErr.ColumnName
		return store.NewValidationFailure(entity, []store.FieldError{
			{Field: field, Message: fmt.Sprintf("%s is required", field)},
		}, err)
	case checkViolationCode:
		return store.NewValidationFailure(entity, []store.FieldError{
			{Field: pgErr.ConstraintName, Message: fmt.Sprintf("check constraint %s failed", pgErr.ConstraintName)},
		}, err)
	case foreignKeyViolationCode:
		return store.NewValidationFailure(entity, []store.FieldError{
			{Field: pgErr.ConstraintName, Message: "referenced entity does not exist"},
		}, err)
	case invalidTextRepresentation:
		return &store.Failure{
			Kind:    store.FailureInvalidIdentifier,
			Entity:  entity,
			Message: "invalid input syntax",
			Err:     err,
		}
	}

	return err
}

func duplicateFields(pgErr *pgconn.PgError) []string {
	m := keyDetail.FindStringSubmatch(pgErr.Detail)
	if m == nil {
		return nil
	}
	fields := strings.Split(m[1], ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
