package service

import (
	"errors"

	"github.com/phrazzld/tasks-api/internal/apperr"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// domainValidation converts a domain validation error into a client-facing
// validation failure on field. Other errors are returned unchanged.
func domainValidation(field string, err error) error {
	if !errors.Is(err, domain.ErrValidation) {
		return err
	}
	return apperr.New(apperr.ValidationFailed, apperr.MessageValidation, apperr.Detail{
		Path:    field,
		Message: err.Error(),
	})
}
