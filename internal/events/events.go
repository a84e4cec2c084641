package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published by the services.
const (
	TypeUserRegistered = "user.registered"
	TypeTaskCreated    = "task.created"
	TypeTaskCompleted  = "task.completed"
	TypeTaskDeleted    = "task.deleted"
)

// Event is something that already happened to a user or task.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// New creates an Event of the given type with payload serialized as JSON.
func New(eventType string, payload any) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		Payload:    raw,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// TaskPayload identifies the task an event is about.
type TaskPayload struct {
	TaskID   string `json:"task_id"`
	Assignee string `json:"assignee,omitempty"`
	Status   string `json:"status,omitempty"`
}

// UserPayload identifies the user an event is about. It never carries
// credentials.
type UserPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Handler processes published events.
type Handler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Emitter publishes events to registered handlers.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}
