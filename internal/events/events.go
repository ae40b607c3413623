package events

import (
	"context"
	"encoding/json"
	"formbuilder/internal/database"
	"formbuilder/internal/logger"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	SubmissionsChannel = "submissions"

	SubmissionCreated = "submission.created"
	SubmissionUpdated = "submission.updated"
	SubmissionDeleted = "submission.deleted"

	CACHE_CHANNEL_PREFIX = "formbuilder:events:"
)

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewEvent(channel, eventType string, data map[string]any) Event {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return Event{
		ID:        id.String(),
		Type:      eventType,
		Channel:   channel,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

type Handler func(Event)

// EventBus fans events out to subscribers. With a cache client events travel
// over valkey pub/sub so every server instance sees them; without one they are
// delivered in process.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	client   database.CacheClient
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	log      logger.Logger
}

func New(client database.CacheClient) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBus{
		handlers: make(map[string][]Handler),
		client:   client,
		ctx:      ctx,
		cancel:   cancel,
		log:      logger.New("events"),
	}
}

func (b *EventBus) Subscribe(channel string, handler Handler) {
	b.mu.Lock()
	first := len(b.handlers[channel]) == 0
	b.handlers[channel] = append(b.handlers[channel], handler)
	b.mu.Unlock()

	if first && b.client != nil {
		b.wg.Add(1)
		go b.receive(channel)
	}
}

func (b *EventBus) Publish(channel string, event Event) error {
	log := b.log.Function("Publish")

	if event.Channel == "" {
		event.Channel = channel
	}

	if b.client == nil {
		b.dispatch(channel, event)
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "type", event.Type)
	}

	cmd := b.client.B().Publish().Channel(CACHE_CHANNEL_PREFIX + channel).Message(string(payload)).Build()
	if err := b.client.Do(b.ctx, cmd).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel, "type", event.Type)
	}

	return nil
}

func (b *EventBus) receive(channel string) {
	defer b.wg.Done()
	log := b.log.Function("receive")

	cmd := b.client.B().Subscribe().Channel(CACHE_CHANNEL_PREFIX + channel).Build()
	err := b.client.Receive(b.ctx, cmd, func(msg valkey.PubSubMessage) {
		var event Event
		if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
			log.Warn("dropping malformed event", "channel", channel, "error", err)
			return
		}
		b.dispatch(channel, event)
	})
	if err != nil && b.ctx.Err() == nil {
		log.Er("subscription ended", err, "channel", channel)
	}
}

func (b *EventBus) dispatch(channel string, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[channel]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Close stops cache subscriptions. The cache client itself is owned by the
// database and closed there.
func (b *EventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return nil
}
