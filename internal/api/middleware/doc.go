// Package middleware contains the request gates that run before handlers:
// trace IDs, panic recovery, bearer-token authentication and request
// validation. Every failure is written through shared.RespondWithError.
package middleware
