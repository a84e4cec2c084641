// Package apperr defines the client-facing error taxonomy and the single
// function that turns any error raised while serving a request into the
// {status, message, errors} shape returned to callers.
package apperr
