package validation

import (
	"net/url"
	"strings"

	"github.com/phrazzld/tasks-api/internal/apperr"
)

// Input is the raw request data a shape is validated against.
type Input struct {
	Body   []byte
	Query  url.Values
	Params map[string]string
}

// Validator checks an Input against a shape and, on success, leaves the
// decoded values in shape. On failure it returns *Errors and the contents of
// shape are unspecified.
type Validator interface {
	Validate(shape any, in Input) error
}

// Messager is implemented by shapes that override the generic violation
// messages. Keys have the form "<region>.<field>.<tag>", for example
// "body.title.required".
type Messager interface {
	ValidationMessages() map[string]string
}

// Errors is a structured multi-field validation failure.
type Errors struct {
	Items []apperr.Detail
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if item.Path == "" {
			parts = append(parts, item.Message)
			continue
		}
		parts = append(parts, item.Path+": "+item.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Violations returns one {path, message} per violated constraint in the
// order they were found.
func (e *Errors) Violations() []apperr.Detail {
	return e.Items
}

func single(path, message string) *Errors {
	return &Errors{Items: []apperr.Detail{{Path: path, Message: message}}}
}
