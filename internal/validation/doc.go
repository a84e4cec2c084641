// Package validation checks the body, query string and path parameters of a
// request against a declared shape before any handler logic runs.
//
// A shape is a struct with any of the fields Body, Query and Params. Each
// region is decoded into its field and the whole shape is then validated in
// one pass with go-playground/validator, so every violated constraint is
// reported, not just the first.
//
//	type createTaskRequest struct {
//		Body struct {
//			Title *string `json:"title" validate:"required,min=1"`
//		}
//	}
package validation
