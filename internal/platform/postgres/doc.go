// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles the details of database connections, query execution, and data
// mapping between domain entities and database records.
//
// Connections go through pgx's database/sql driver ("pgx"). Driver errors are
// translated into *store.Failure values by MapError.
package postgres
