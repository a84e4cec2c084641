// Package testdb provides database setup for tests.
//
// OpenSQLite gives every test its own migrated database file and needs no
// external services. OpenPostgres connects to DATABASE_URL (or
// TASKS_TEST_DB_URL) and skips the test when neither is set; combine it with
// WithTx so each test's writes are rolled back.
package testdb
