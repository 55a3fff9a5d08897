package websockets

import (
	"encoding/json"
	"sync"
	"time"

	"agency/internal/events"
	"agency/internal/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MessageTypePing  = "ping"
	MessageTypePong  = "pong"
	MessageTypeHello = "hello"
	MessageTypeEvent = "event"

	writeTimeout = 5 * time.Second
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Conn is the subset of a websocket connection the manager drives.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type Client struct {
	ID     string
	UserID string
	conn   Conn
	mu     sync.Mutex
}

func (c *Client) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Manager relays client change events to every connected staff browser.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     logger.Logger
}

func New(eventBus *events.EventBus) (*Manager, error) {
	m := &Manager{
		clients: make(map[string]*Client),
		log:     logger.New("websockets"),
	}

	if eventBus != nil {
		eventBus.Subscribe(events.ChannelClients, m.relay)
		eventBus.Subscribe(events.ChannelBroadcast, m.relay)
	}

	return m, nil
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	userID, _ := c.Locals("userID").(string)
	m.Serve(c, userID)
}

// Serve registers conn and blocks until the peer goes away.
func (m *Manager) Serve(conn Conn, userID string) {
	log := m.log.Function("Serve")

	client := &Client{ID: uuid.NewString(), UserID: userID, conn: conn}
	if err := m.sendMessage(client, Message{Type: MessageTypeHello, Data: map[string]any{"clientId": client.ID}}); err != nil {
		log.Er("failed to greet websocket client", err, "clientID", client.ID)
		_ = conn.Close()
		return
	}

	m.register(client)
	defer m.unregister(client)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			log.Debug("websocket closed", "clientID", client.ID, "error", err)
			return
		}

		var incoming Message
		if err := json.Unmarshal(payload, &incoming); err != nil {
			log.Warn("ignoring malformed websocket message", "clientID", client.ID)
			continue
		}
		if incoming.Type == MessageTypePing {
			if err := m.sendMessage(client, Message{Type: MessageTypePong}); err != nil {
				return
			}
		}
	}
}

func (m *Manager) register(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
	m.log.Function("register").Debug("websocket client connected", "clientID", client.ID, "userID", client.UserID)
}

func (m *Manager) unregister(client *Client) {
	m.mu.Lock()
	delete(m.clients, client.ID)
	m.mu.Unlock()
	_ = client.conn.Close()
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) relay(event events.Event) {
	m.Broadcast(Message{
		ID:        event.ID,
		Type:      MessageTypeEvent,
		Channel:   event.Channel,
		Action:    event.Action,
		UserID:    event.UserID,
		Data:      event.Data,
		Timestamp: event.Timestamp,
	})
}

func (m *Manager) Broadcast(message Message) {
	log := m.log.Function("Broadcast")

	payload, err := encode(message)
	if err != nil {
		log.Er("failed to encode websocket message", err)
		return
	}

	m.mu.RLock()
	clients := make([]*Client, 0, len(m.clients))
	for _, client := range m.clients {
		clients = append(clients, client)
	}
	m.mu.RUnlock()

	for _, client := range clients {
		if err := client.send(payload); err != nil {
			log.Warn("failed to deliver websocket message", "clientID", client.ID, "error", err)
		}
	}
}

func (m *Manager) sendMessage(client *Client, message Message) error {
	payload, err := encode(message)
	if err != nil {
		return err
	}
	return client.send(payload)
}

func encode(message Message) ([]byte, error) {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	return json.Marshal(message)
}
