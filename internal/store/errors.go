package store

import (
	"errors"
	"fmt"
	"strings"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is matched by any Failure of kind FailureDuplicateKey.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is matched by any Failure of kind FailureValidation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when a conditional update matched no rows,
	// either because the entity does not exist or its current state did not
	// satisfy the condition. Callers re-read to tell the two apart.
	ErrUpdateFailed = errors.New("update failed")

	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)
)

// FailureKind tags a storage failure so callers never have to inspect
// driver error types.
type FailureKind int

const (
	// FailureDuplicateKey is a unique constraint violation.
	FailureDuplicateKey FailureKind = iota + 1
	// FailureInvalidIdentifier is an identifier the store cannot parse.
	FailureInvalidIdentifier
	// FailureValidation is a NOT NULL / CHECK violation or an entity that
	// failed domain validation before it was written.
	FailureValidation
)

func (k FailureKind) String() string {
	switch k {
	case FailureDuplicateKey:
		return "duplicate_key"
	case FailureInvalidIdentifier:
		return "invalid_identifier"
	case FailureValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// FieldError is a single field-level problem reported by the store.
type FieldError struct {
	Field   string
	Message string
}

// Failure is a classified storage failure. Store implementations translate
// driver errors into Failures; everything above the store works with Kind.
type Failure struct {
	Kind   FailureKind
	Entity string
	// Fields lists the conflicting columns of a duplicate key, if known.
	Fields []string
	// Violations lists per-field problems of a validation failure.
	Violations []FieldError
	Message    string
	Err        error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	var b strings.Builder
	if f.Entity != "" {
		b.WriteString(f.Entity)
		b.WriteString(": ")
	}
	b.WriteString(f.Message)
	if f.Err != nil {
		b.WriteString(": ")
		b.WriteString(f.Err.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped driver error to support errors.Is/errors.As.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Is lets errors.Is(err, ErrDuplicate) and errors.Is(err, ErrInvalidEntity)
// match classified failures.
func (f *Failure) Is(target error) bool {
	switch target {
	case ErrDuplicate:
		return f.Kind == FailureDuplicateKey
	case ErrInvalidEntity:
		return f.Kind == FailureValidation
	}
	return false
}

// NewDuplicateKeyFailure reports a unique violation on the given fields.
func NewDuplicateKeyFailure(entity string, fields []string, err error) *Failure {
	msg := "duplicate key"
	if len(fields) > 0 {
		msg = "duplicate key on " + strings.Join(fields, ", ")
	}
	return &Failure{Kind: FailureDuplicateKey, Entity: entity, Fields: fields, Message: msg, Err: err}
}

// NewInvalidIdentifierFailure reports an identifier that is not a valid ID.
func NewInvalidIdentifierFailure(entity, id string, err error) *Failure {
	return &Failure{
		Kind:    FailureInvalidIdentifier,
		Entity:  entity,
		Message: fmt.Sprintf("invalid %s identifier %q", entity, id),
		Err:     err,
	}
}

// NewValidationFailure reports field-level problems with an entity.
func NewValidationFailure(entity string, violations []FieldError, err error) *Failure {
	return &Failure{
		Kind:       FailureValidation,
		Entity:     entity,
		Violations: violations,
		Message:    "validation failed",
		Err:        err,
	}
}

// AsFailure extracts a Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
