package websockets

import (
	"encoding/json"
	"formbuilder/internal/events"
	"formbuilder/internal/schema"
	"formbuilder/internal/validation"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*Manager, *events.EventBus) {
	t.Helper()

	provider, err := schema.Default(time.Now())
	require.NoError(t, err)
	validator, err := validation.New(provider.Form(), provider.DependentOptions())
	require.NoError(t, err)

	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })

	return New(validator, bus), bus
}

func TestHandleMessage(t *testing.T) {
	m, _ := newManager(t)

	tests := []struct {
		name    string
		payload string
		check   func(t *testing.T, r Response)
	}{
		{
			name:    "validate reports field errors",
			payload: `{"type":"validate","data":{"age":15}}`,
			check: func(t *testing.T, r Response) {
				assert.Equal(t, MESSAGE_TYPE_VALIDATION, r.Type)
				require.NotNil(t, r.Valid)
				assert.False(t, *r.Valid)
				assert.Equal(t, "Age must be at least 18", r.Errors["age"])
				assert.Equal(t, "First Name is required", r.Errors["firstName"])
			},
		},
		{
			name:    "validate single field",
			payload: `{"type":"validate","field":"age","data":{"age":"abc"}}`,
			check: func(t *testing.T, r Response) {
				assert.Equal(t, validation.Errors{"age": "Age must be a valid number"}, r.Errors)
				assert.Equal(t, "age", r.Field)
			},
		},
		{
			name:    "validate single valid field",
			payload: `{"type":"validate","field":"age","data":{"age":30}}`,
			check: func(t *testing.T, r Response) {
				require.NotNil(t, r.Valid)
				assert.True(t, *r.Valid)
				assert.Empty(t, r.Errors)
			},
		},
		{
			name:    "options follow the controller",
			payload: `{"type":"options","field":"skills","data":{"department":"Sales"}}`,
			check: func(t *testing.T, r Response) {
				assert.Equal(t, MESSAGE_TYPE_OPTIONS, r.Type)
				assert.Contains(t, r.Options, "CRM")
				assert.NotContains(t, r.Options, "Go")
			},
		},
		{
			name:    "options for unknown field",
			payload: `{"type":"options","field":"nope"}`,
			check: func(t *testing.T, r Response) {
				assert.Equal(t, MESSAGE_TYPE_ERROR, r.Type)
			},
		},
		{
			name:    "ping",
			payload: `{"type":"ping"}`,
			check: func(t *testing.T, r Response) {
				assert.Equal(t, MESSAGE_TYPE_PONG, r.Type)
			},
		},
		{
			name:    "unknown type",
			payload: `{"type":"shout"}`,
			check: func(t *testing.T, r Response) {
				assert.Equal(t, "unknown message type", r.Error)
			},
		},
		{
			name:    "malformed json",
			payload: `{"type":`,
			check: func(t *testing.T, r Response) {
				assert.Equal(t, "invalid message", r.Error)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, m.handleMessage([]byte(tt.payload)))
		})
	}
}

func TestBroadcastEvent(t *testing.T) {
	m, bus := newManager(t)

	first := &Client{ID: "a", send: make(chan []byte, 1)}
	second := &Client{ID: "b", send: make(chan []byte, 1)}
	m.register(first)
	m.register(second)
	assert.Equal(t, 2, m.ClientCount())

	event := events.NewEvent(events.SubmissionsChannel, events.SubmissionCreated, map[string]any{"id": "abc"})
	require.NoError(t, bus.Publish(events.SubmissionsChannel, event))

	for _, client := range []*Client{first, second} {
		select {
		case payload := <-client.send:
			var got events.Event
			require.NoError(t, json.Unmarshal(payload, &got))
			assert.Equal(t, events.SubmissionCreated, got.Type)
			assert.Equal(t, "abc", got.Data["id"])
		default:
			t.Fatalf("client %s received nothing", client.ID)
		}
	}
}

func TestSend_FullBufferDrops(t *testing.T) {
	m, _ := newManager(t)

	client := &Client{ID: "slow", send: make(chan []byte, 1)}
	m.register(client)

	m.enqueue(client, Response{Type: MESSAGE_TYPE_PONG})
	m.enqueue(client, Response{Type: MESSAGE_TYPE_PONG})
	assert.Len(t, client.send, 1)
}

func TestUnregister_ClosesSend(t *testing.T) {
	m, _ := newManager(t)

	client := &Client{ID: "gone", send: make(chan []byte, 1)}
	m.register(client)
	m.unregister(client)
	m.unregister(client)

	_, open := <-client.send
	assert.False(t, open)
	assert.Equal(t, 0, m.ClientCount())

	m.enqueue(client, Response{Type: MESSAGE_TYPE_PONG})
}
