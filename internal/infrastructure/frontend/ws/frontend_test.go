package ws

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashql/dashql/internal/domain"
)

func awaitEvent(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case evt := <-c.send:
		return evt
	case <-time.After(time.Second):
		t.Fatal("client never received the broadcast event")
		return nil
	}
}

func newSubscribedFrontend(t *testing.T, sessionID string) (*Frontend, *Client) {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	c := newTestClient("client")
	hub.register <- c
	require.Eventually(t, func() bool {
		hub.Subscribe(c, sessionID)
		return hub.ClientCount(sessionID) == 1
	}, time.Second, 5*time.Millisecond)

	return NewFrontend(hub), c
}

func TestFrontend_UpdateTaskStatusPublishesPayload(t *testing.T) {
	fe, c := newSubscribedFrontend(t, "session-1")

	fe.UpdateTaskStatus(context.Background(), "session-1", 2, domain.TaskFailed, &domain.NodeError{Kind: "internal_error", Message: "boom"})

	evt := awaitEvent(t, c)
	assert.Equal(t, EventTaskStatus, evt.Type)
	payload := evt.Payload.(TaskStatusPayload)
	assert.Equal(t, 2, payload.TaskID)
	assert.Equal(t, domain.TaskFailed.String(), payload.Status)
	assert.Equal(t, "internal_error", payload.ErrorKind)
	assert.Equal(t, "boom", payload.ErrorText)
}

func TestFrontend_UpdateTaskStatusOmitsErrorFieldsWhenNil(t *testing.T) {
	fe, c := newSubscribedFrontend(t, "session-1")

	fe.UpdateTaskStatus(context.Background(), "session-1", 0, domain.TaskCompleted, nil)

	evt := awaitEvent(t, c)
	payload := evt.Payload.(TaskStatusPayload)
	assert.Empty(t, payload.ErrorKind)
	assert.Empty(t, payload.ErrorText)
}

func TestFrontend_BeginAndEndBatchUpdatePublishBatchEvents(t *testing.T) {
	fe, c := newSubscribedFrontend(t, "session-1")

	fe.BeginBatchUpdate(context.Background(), "session-1")
	assert.Equal(t, EventBatchBegin, awaitEvent(t, c).Type)

	fe.EndBatchUpdate(context.Background(), "session-1")
	assert.Equal(t, EventBatchEnd, awaitEvent(t, c).Type)
}

func TestFrontend_DeleteTaskDataPublishesDataID(t *testing.T) {
	fe, c := newSubscribedFrontend(t, "session-1")

	fe.DeleteTaskData(context.Background(), "session-1", 5)

	evt := awaitEvent(t, c)
	assert.Equal(t, EventTaskDataDelete, evt.Type)
	assert.Equal(t, 5, evt.Payload.(TaskDataDeletePayload).DataID)
}

func TestFrontend_UpdateInputStatePublishesStatementPayload(t *testing.T) {
	fe, c := newSubscribedFrontend(t, "session-1")

	fe.UpdateInputState(context.Background(), "session-1", 1, "42")

	evt := awaitEvent(t, c)
	assert.Equal(t, EventInputState, evt.Type)
	payload := evt.Payload.(StatementStatePayload)
	assert.Equal(t, 1, payload.StatementID)
	assert.Equal(t, "42", payload.State)
}
