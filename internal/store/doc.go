// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Implementations live in internal/platform/postgres and
// internal/platform/sqlite. Both translate driver errors into *Failure
// values so that callers classify storage problems by Kind.
package store
