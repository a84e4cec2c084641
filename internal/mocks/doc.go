// Package mocks provides hand-written test doubles for the store, auth and
// service interfaces. Each mock calls its Fn field when set and otherwise
// falls back to simple default behavior.
package mocks
