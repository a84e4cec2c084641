// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the stores
// defined in internal/store to fulfill application features.
//
// Services never format responses. They return either a classified
// *apperr.Error, a classified store failure, or a wrapped unexpected error,
// and the API layer normalizes whichever it receives.
package service
