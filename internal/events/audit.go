package events

import (
	"context"
	"log/slog"
)

// AuditLogger writes one structured log line per event.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger returns a handler that records events on logger.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger.With("component", "audit")}
}

// HandleEvent logs the event at info level.
func (a *AuditLogger) HandleEvent(ctx context.Context, event *Event) error {
	a.logger.InfoContext(ctx, "event",
		"event_id", event.ID,
		"event_type", event.Type,
		"occurred_at", event.OccurredAt,
		"payload", string(event.Payload))
	return nil
}
