package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/events"
)

// Option configures a service at construction time.
type Option func(*options)

type options struct {
	events events.Emitter
}

// WithEvents publishes lifecycle events to emitter after each successful
// write.
func WithEvents(emitter events.Emitter) Option {
	return func(o *options) {
		o.events = emitter
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// publish emits an event if an emitter is configured. Failures are logged
// and never undo the write that triggered them.
func (o options) publish(ctx context.Context, log *slog.Logger, eventType string, payload any) {
	if o.events == nil {
		return
	}
	event, err := events.New(eventType, payload)
	if err != nil {
		log.Error("failed to build event", "event_type", eventType, "error", err)
		return
	}
	if err := o.events.Emit(ctx, event); err != nil {
		log.Warn("event delivery failed", "event_type", eventType, "error", err)
	}
}
