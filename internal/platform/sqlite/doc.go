// Package sqlite provides SQLite implementations of the internal/store
// interfaces using the pure-Go modernc.org/sqlite driver.
//
// The database is used through a single connection, so writes are
// serialized by database/sql. Timestamps are stored as UTC unix nanoseconds.
package sqlite
