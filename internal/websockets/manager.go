package websockets

import (
	"encoding/json"
	"formbuilder/internal/events"
	"formbuilder/internal/logger"
	"formbuilder/internal/models"
	"formbuilder/internal/validation"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	MESSAGE_TYPE_VALIDATE   = "validate"
	MESSAGE_TYPE_VALIDATION = "validation"
	MESSAGE_TYPE_OPTIONS    = "options"
	MESSAGE_TYPE_PING       = "ping"
	MESSAGE_TYPE_PONG       = "pong"
	MESSAGE_TYPE_ERROR      = "error"

	SEND_BUFFER_SIZE = 32
	WRITE_TIMEOUT    = 10 * time.Second
)

// Message is what clients send. Data carries the value map entered so far.
type Message struct {
	Type  string                `json:"type"`
	Field string                `json:"field,omitempty"`
	Data  models.SubmissionData `json:"data,omitempty"`
}

type Response struct {
	Type    string            `json:"type"`
	Valid   *bool             `json:"valid,omitempty"`
	Errors  validation.Errors `json:"errors,omitempty"`
	Field   string            `json:"field,omitempty"`
	Options []string          `json:"options,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
}

// Manager serves live validation to connected renderers and pushes submission
// change events to all of them.
type Manager struct {
	mu        sync.RWMutex
	clients   map[*Client]struct{}
	validator *validation.Validator
	log       logger.Logger
}

func New(validator *validation.Validator, eventBus *events.EventBus) *Manager {
	m := &Manager{
		clients:   make(map[*Client]struct{}),
		validator: validator,
		log:       logger.New("websockets"),
	}

	if eventBus != nil {
		eventBus.Subscribe(events.SubmissionsChannel, m.broadcastEvent)
	}

	return m
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:   models.NewID(),
		conn: c,
		send: make(chan []byte, SEND_BUFFER_SIZE),
	}
	m.register(client)
	log.Debug("client connected", "clientID", client.ID)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.writePump(client)
	}()

	m.readPump(client)

	m.unregister(client)
	wg.Wait()
	log.Debug("client disconnected", "clientID", client.ID)
}

func (m *Manager) readPump(client *Client) {
	log := m.log.Function("readPump")

	for {
		messageType, payload, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("unexpected close", "clientID", client.ID, "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		m.enqueue(client, m.handleMessage(payload))
	}
}

func (m *Manager) writePump(client *Client) {
	log := m.log.Function("writePump")

	for payload := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
		if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warn("failed to write message", "clientID", client.ID, "error", err)
			// Drain so senders never block on a dead client.
			for range client.send {
			}
			return
		}
	}
}

// handleMessage answers one client message. Validation runs through the same
// Validator that guards submission intake.
func (m *Manager) handleMessage(payload []byte) Response {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Response{Type: MESSAGE_TYPE_ERROR, Error: "invalid message"}
	}

	switch msg.Type {
	case MESSAGE_TYPE_VALIDATE:
		errs := m.validator.Validate(msg.Data)
		if msg.Field != "" {
			fieldErrs := validation.Errors{}
			if message, ok := errs[msg.Field]; ok {
				fieldErrs[msg.Field] = message
			}
			errs = fieldErrs
		}
		valid := errs.Valid()
		return Response{Type: MESSAGE_TYPE_VALIDATION, Valid: &valid, Errors: errs, Field: msg.Field}
	case MESSAGE_TYPE_OPTIONS:
		if _, ok := m.validator.Form().Field(msg.Field); !ok {
			return Response{Type: MESSAGE_TYPE_ERROR, Error: "unknown field"}
		}
		options := m.validator.EffectiveOptions(msg.Field, msg.Data)
		if options == nil {
			options = []string{}
		}
		return Response{Type: MESSAGE_TYPE_OPTIONS, Field: msg.Field, Options: options}
	case MESSAGE_TYPE_PING:
		return Response{Type: MESSAGE_TYPE_PONG}
	}

	return Response{Type: MESSAGE_TYPE_ERROR, Error: "unknown message type"}
}

func (m *Manager) enqueue(client *Client, response Response) {
	payload, err := json.Marshal(response)
	if err != nil {
		m.log.Function("enqueue").Er("failed to marshal response", err, "type", response.Type)
		return
	}
	m.send(client, payload)
}

func (m *Manager) broadcastEvent(event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		m.log.Function("broadcastEvent").Er("failed to marshal event", err, "type", event.Type)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for client := range m.clients {
		m.sendLocked(client, payload)
	}
}

func (m *Manager) send(client *Client, payload []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.clients[client]; ok {
		m.sendLocked(client, payload)
	}
}

// sendLocked never blocks; a client whose buffer is full misses the message.
func (m *Manager) sendLocked(client *Client, payload []byte) {
	select {
	case client.send <- payload:
	default:
		m.log.Function("send").Warn("client send buffer full, dropping message", "clientID", client.ID)
	}
}

func (m *Manager) register(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client] = struct{}{}
}

func (m *Manager) unregister(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[client]; ok {
		delete(m.clients, client)
		close(client.send)
	}
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
