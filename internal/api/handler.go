package api

import (
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
)

// HandlerFunc is an HTTP handler that reports failure by returning an error.
// Handlers write their own success response and leave failures to Handle.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts h to http.HandlerFunc, writing any returned error as the
// normalized error envelope.
func Handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			shared.RespondWithError(w, r, err)
		}
	}
}
