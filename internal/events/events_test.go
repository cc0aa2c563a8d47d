package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	type progressPayload struct {
		RunID     string `json:"run_id"`
		Completed int    `json:"completed"`
	}
	payload := progressPayload{RunID: "run-1", Completed: 3}

	event, err := NewEvent(TypeBatchProgress, payload)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeBatchProgress, event.Type)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded progressPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewEvent_UnencodablePayload(t *testing.T) {
	_, err := NewEvent(TypeTaskUpdated, make(chan int))
	assert.Error(t, err)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *Event
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestHandlerFunc(t *testing.T) {
	var got *Event
	handler := HandlerFunc(func(_ context.Context, event *Event) error {
		got = event
		return nil
	})

	event := &Event{Type: TypeBatchDone, Payload: json.RawMessage(`{}`)}
	require.NoError(t, handler.HandleEvent(context.Background(), event))
	assert.Same(t, event, got)
}

func TestEmit(t *testing.T) {
	assert.NoError(t, Emit(context.Background(), nil, TypeBatchDone, nil), "nil emitter is a no-op")

	handler := &MockEventHandler{HandlerError: errors.New("boom")}
	err := Emit(context.Background(), emitterFunc(handler.HandleEvent), TypeBatchDone, map[string]int{"total": 5})
	assert.EqualError(t, err, "boom")
	require.NotNil(t, handler.LastEvent)
	assert.Equal(t, TypeBatchDone, handler.LastEvent.Type)
}

type emitterFunc func(ctx context.Context, event *Event) error

func (f emitterFunc) EmitEvent(ctx context.Context, event *Event) error { return f(ctx, event) }
