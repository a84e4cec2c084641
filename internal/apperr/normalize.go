package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/store"
)

// Fixed messages for the rule-based classifications.
const (
	MessageValidation        = "Validation error"
	MessageDuplicateKey      = "Duplicate key error"
	MessageInvalidIdentifier = "Invalid identifier"
	MessageInternal          = "Internal Server Error"
)

// Normalized is the uniform failure shape written to clients.
type Normalized struct {
	StatusCode int      `json:"status"`
	Message    string   `json:"message"`
	Details    []Detail `json:"errors"`
}

// FieldViolations is implemented by structured multi-field validation
// failures.
type FieldViolations interface {
	error
	Violations() []Detail
}

type statusCoder interface {
	StatusCode() int
}

type detailer interface {
	Details() []Detail
}

// Normalize converts any error into a Normalized response. Rules are tried
// in order and the first match wins:
//
//  1. *Error anywhere in the chain: its own status, message and details.
//  2. FieldViolations, or a store failure of kind FailureValidation:
//     400 "Validation error" with one {path, message} per field.
//  3. Store failure of kind FailureDuplicateKey: 409 "Duplicate key error"
//     with one {field, message} per conflicting field.
//  4. Store failure of kind FailureInvalidIdentifier: 400 "Invalid identifier".
//  5. Anything else: the error's own StatusCode/Details if it has them,
//     otherwise 500 "Internal Server Error" with null details.
//
// A nil error yields a 500.
func Normalize(err error) Normalized {
	if err == nil {
		return Normalized{StatusCode: http.StatusInternalServerError, Message: MessageInternal}
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return Normalized{
			StatusCode: appErr.StatusCode(),
			Message:    appErr.Message,
			Details:    appErr.Details,
		}
	}

	var violations FieldViolations
	if errors.As(err, &violations) {
		return Normalized{
			StatusCode: http.StatusBadRequest,
			Message:    MessageValidation,
			Details:    violations.Violations(),
		}
	}

	if failure, ok := store.AsFailure(err); ok {
		switch failure.Kind {
		case store.FailureValidation:
			return Normalized{
				StatusCode: http.StatusBadRequest,
				Message:    MessageValidation,
				Details:    storeViolations(failure),
			}
		case store.FailureDuplicateKey:
			return Normalized{
				StatusCode: http.StatusConflict,
				Message:    MessageDuplicateKey,
				Details:    duplicateDetails(failure),
			}
		case store.FailureInvalidIdentifier:
			return Normalized{
				StatusCode: http.StatusBadRequest,
				Message:    MessageInvalidIdentifier,
				Details:    []Detail{{Message: failure.Message}},
			}
		}
	}

	var coder statusCoder
	if errors.As(err, &coder) {
		n := Normalized{StatusCode: coder.StatusCode(), Message: err.Error()}
		var d detailer
		if errors.As(err, &d) {
			n.Details = d.Details()
		}
		return n
	}

	return Normalized{StatusCode: http.StatusInternalServerError, Message: MessageInternal}
}

func storeViolations(f *store.Failure) []Detail {
	if len(f.Violations) == 0 {
		return []Detail{{Message: f.Message}}
	}
	details := make([]Detail, 0, len(f.Violations))
	for _, v := range f.Violations {
		details = append(details, Detail{Path: v.Field, Message: v.Message})
	}
	return details
}

func duplicateDetails(f *store.Failure) []Detail {
	if len(f.Fields) == 0 {
		return []Detail{{Message: f.Message}}
	}
	details := make([]Detail, 0, len(f.Fields))
	for _, field := range f.Fields {
		details = append(details, Detail{Field: field, Message: fmt.Sprintf("%s already exists", field)})
	}
	return details
}
