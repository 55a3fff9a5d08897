package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"agency/config"
	"agency/internal/logger"

	"github.com/valkey-io/valkey-go"
)

const (
	ChannelClients   = "clients"
	ChannelBroadcast = "broadcast"
)

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Handler func(event Event)

// EventBus fans events out to in-process subscribers. With a valkey client
// events travel through pub/sub so every server instance sees them;
// without one they are delivered directly.
type EventBus struct {
	client   valkey.Client
	config   config.Config
	log      logger.Logger
	mu       sync.RWMutex
	handlers map[string][]Handler
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(client valkey.Client, config config.Config) *EventBus {
	bus := &EventBus{
		client:   client,
		config:   config,
		log:      logger.New("events"),
		handlers: make(map[string][]Handler),
	}

	if client != nil {
		ctx, cancel := context.WithCancel(context.Background())
		bus.cancel = cancel
		bus.done = make(chan struct{})
		go bus.receive(ctx)
	}

	return bus
}

func (b *EventBus) Subscribe(channel string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[channel] = append(b.handlers[channel], handler)
}

func (b *EventBus) Publish(channel string, event Event) error {
	log := b.log.Function("Publish")

	if event.Channel == "" {
		event.Channel = channel
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if b.client == nil {
		b.dispatch(channel, event)
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := b.client.B().Publish().Channel(channel).Message(string(payload)).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel, "eventID", event.ID)
	}

	return nil
}

func (b *EventBus) dispatch(channel string, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[channel]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

func (b *EventBus) receive(ctx context.Context) {
	log := b.log.Function("receive")
	defer close(b.done)

	cmd := b.client.B().Subscribe().Channel(ChannelClients, ChannelBroadcast).Build()
	err := b.client.Receive(ctx, cmd, func(msg valkey.PubSubMessage) {
		var event Event
		if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
			log.Er("failed to decode event", err, "channel", msg.Channel)
			return
		}
		b.dispatch(msg.Channel, event)
	})
	if err != nil && ctx.Err() == nil {
		log.Er("event subscription ended", err)
	}
}

func (b *EventBus) Close() error {
	if b.cancel != nil {
		b.cancel()
		<-b.done
	}
	return nil
}
