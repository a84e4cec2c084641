// Package events carries domain lifecycle events from the services to
// whoever is interested in them.
//
// Services publish through an Emitter and never learn which handlers are
// registered. Handler failures are logged by the emitter and reported to
// the caller, which treats them as non-fatal: a task that was completed
// stays completed even if the audit trail could not record it.
package events
