package apperr

import (
	"fmt"
	"net/http"
)

// Kind classifies a client-facing failure. Each kind has exactly one
// HTTP status.
type Kind int

const (
	Unclassified Kind = iota
	AuthMissing
	AuthMalformed
	TokenExpired
	TokenMalformed
	TokenVerificationUnknown
	ValidationFailed
	TaskNotFound
	TaskAlreadyCompleted
	DuplicateKey
	InvalidIdentifier
	InvalidCredentials
	RouteNotFound
	MethodNotAllowed
)

var kindNames = map[Kind]string{
	Unclassified:             "Unclassified",
	AuthMissing:              "AuthMissing",
	AuthMalformed:            "AuthMalformed",
	TokenExpired:             "TokenExpired",
	TokenMalformed:           "TokenMalformed",
	TokenVerificationUnknown: "TokenVerificationUnknown",
	ValidationFailed:         "ValidationFailed",
	TaskNotFound:             "TaskNotFound",
	TaskAlreadyCompleted:     "TaskAlreadyCompleted",
	DuplicateKey:             "DuplicateKey",
	InvalidIdentifier:        "InvalidIdentifier",
	InvalidCredentials:       "InvalidCredentials",
	RouteNotFound:            "RouteNotFound",
	MethodNotAllowed:         "MethodNotAllowed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case AuthMissing, AuthMalformed, TokenExpired, TokenMalformed, InvalidCredentials:
		return http.StatusUnauthorized
	case ValidationFailed, TaskAlreadyCompleted, InvalidIdentifier:
		return http.StatusBadRequest
	case TaskNotFound, RouteNotFound:
		return http.StatusNotFound
	case DuplicateKey:
		return http.StatusConflict
	case MethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Detail is one entry of the "errors" array in a failure response.
type Detail struct {
	Field   string `json:"field,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Error is an already-classified failure. Normalize passes it through
// unchanged.
type Error struct {
	Kind    Kind
	Message string
	Details []Detail
}

// New creates an Error of the given kind.
func New(kind Kind, message string, details ...Detail) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// WithMessageDetail creates an Error whose details repeat the message as a
// single {message} entry.
func WithMessageDetail(kind Kind, message string) *Error {
	return New(kind, message, Detail{Message: message})
}

func (e *Error) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status for the error's kind.
func (e *Error) StatusCode() int {
	return e.Kind.Status()
}

// NewTaskNotFound reports that no task with the given id exists.
func NewTaskNotFound(id string) *Error {
	return New(TaskNotFound, fmt.Sprintf("Task %s not found", id))
}

// NewTaskAlreadyCompleted reports a second completion of the same task.
func NewTaskAlreadyCompleted(id string) *Error {
	return New(TaskAlreadyCompleted, fmt.Sprintf("Task %s is already completed", id))
}
