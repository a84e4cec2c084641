package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/apperr"
	"github.com/phrazzld/tasks-api/internal/validation"
)

// MaxBodyBytes caps the request body read by Validate.
const MaxBodyBytes = 1 << 20

type validatedKey struct{}

// ErrBodyTooLarge is returned for bodies over MaxBodyBytes.
var ErrBodyTooLarge = apperr.New(apperr.ValidationFailed, apperr.MessageValidation,
	apperr.Detail{Path: "body", Message: "body is too large"})

// Validate checks the request body, query and chi URL params against a new
// T. On success the populated *T is stored in the context for Validated;
// on failure the request is rejected and next is never called.
func Validate[T any](v validation.Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			in, err := readInput(w, r)
			if err != nil {
				shared.RespondWithError(w, r, err)
				return
			}

			shape := new(T)
			if err := v.Validate(shape, in); err != nil {
				shared.RespondWithError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), validatedKey{}, shape)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Validated returns the shape stored by Validate[T], or nil if the request
// did not pass through it.
func Validated[T any](r *http.Request) *T {
	shape, _ := r.Context().Value(validatedKey{}).(*T)
	return shape
}

func readInput(w http.ResponseWriter, r *http.Request) (validation.Input, error) {
	in := validation.Input{Query: r.URL.Query(), Params: map[string]string{}}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "*" {
				continue
			}
			in.Params[key] = rctx.URLParams.Values[i]
		}
	}

	if r.Body != nil {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return in, ErrBodyTooLarge
			}
			return in, err
		}
		in.Body = body
	}
	return in, nil
}
