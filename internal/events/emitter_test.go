package events

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("no handlers", func(t *testing.T) {
		emitter := NewInMemoryEmitter(logger)
		event, err := New(TypeTaskCreated, TaskPayload{TaskID: "t-1"})
		require.NoError(t, err)

		assert.NoError(t, emitter.Emit(context.Background(), event))
	})

	t.Run("every handler receives the event", func(t *testing.T) {
		emitter := NewInMemoryEmitter(logger)
		first, second := &recordingHandler{}, &recordingHandler{}
		emitter.Register(first)
		emitter.Register(second)

		event, err := New(TypeTaskDeleted, TaskPayload{TaskID: "t-1"})
		require.NoError(t, err)
		require.NoError(t, emitter.Emit(context.Background(), event))

		assert.Equal(t, []string{TypeTaskDeleted}, first.Types())
		assert.Equal(t, []string{TypeTaskDeleted}, second.Types())
	})

	t.Run("failing handler does not stop delivery", func(t *testing.T) {
		emitter := NewInMemoryEmitter(logger)
		failing := &recordingHandler{err: errors.New("handler error")}
		ok := &recordingHandler{}
		emitter.Register(failing)
		emitter.Register(ok)

		event, err := New(TypeUserRegistered, UserPayload{UserID: "u-1", Email: "a@b.co"})
		require.NoError(t, err)

		err = emitter.Emit(context.Background(), event)
		assert.EqualError(t, err, "handler error")
		assert.Len(t, failing.Types(), 1)
		assert.Len(t, ok.Types(), 1)
	})

	t.Run("handler func", func(t *testing.T) {
		emitter := NewInMemoryEmitter(nil)
		var got string
		emitter.Register(HandlerFunc(func(_ context.Context, e *Event) error {
			got = e.Type
			return nil
		}))

		event, err := New(TypeTaskCompleted, TaskPayload{TaskID: "t-1"})
		require.NoError(t, err)
		require.NoError(t, emitter.Emit(context.Background(), event))
		assert.Equal(t, TypeTaskCompleted, got)
	})
}

func TestAuditLogger(t *testing.T) {
	var buf bytes.Buffer
	audit := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	event, err := New(TypeTaskCompleted, TaskPayload{TaskID: "t-9"})
	require.NoError(t, err)
	require.NoError(t, audit.HandleEvent(context.Background(), event))

	out := buf.String()
	assert.Contains(t, out, `"component":"audit"`)
	assert.Contains(t, out, `"event_type":"task.completed"`)
	assert.Contains(t, out, `t-9`)
}
