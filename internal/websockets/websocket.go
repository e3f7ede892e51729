package websockets

import (
	"encoding/json"
	"time"

	"spotless/internal/events"
	"spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE  = 64 * 1024
	SEND_CHANNEL_SIZE = 64
)

// Message is the frame pushed to connected dashboards. It mirrors the
// event bus payload so clients see the same shape regardless of which API
// instance produced the event.
type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	CompanyID string         `json:"companyId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Client is one upgraded connection. Identity is resolved by the auth
// middleware before the upgrade, so every client arrives scoped to a
// company (superadmins have none and receive everything).
type Client struct {
	ID         string
	ProfileID  uuid.UUID
	CompanyID  *uuid.UUID
	Superadmin bool
	Connection *websocket.Conn
	Manager    *Manager
	send       chan Message
}

type Manager struct {
	hub      *Hub
	log      logger.Logger
	eventBus *events.EventBus
}

func New(eventBus *events.EventBus) (*Manager, error) {
	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan Message),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		log:      logger.New("websockets"),
		eventBus: eventBus,
	}

	go manager.hub.run(manager)
	manager.subscribeToEvents()

	return manager, nil
}

// HandleWebSocket runs the connection lifecycle for an already
// authenticated upgrade. Blocks until the connection closes.
func (m *Manager) HandleWebSocket(conn *websocket.Conn, profile *models.Profile) {
	client := &Client{
		ID:         uuid.New().String(),
		ProfileID:  profile.ID,
		CompanyID:  profile.CompanyID,
		Superadmin: profile.IsSuperadmin(),
		Connection: conn,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	m.hub.register <- client

	go client.writePump()
	client.readPump()
}

func (m *Manager) subscribeToEvents() {
	for _, channel := range []events.Channel{events.SCHEDULE_CHANNEL, events.COMPANY_CHANNEL} {
		ch := channel
		err := m.eventBus.Subscribe(ch, func(event events.Event) error {
			m.forwardEvent(event)
			return nil
		})
		if err != nil {
			m.log.Er("failed to subscribe to event channel", err, "channel", ch)
		}
	}
}

func (m *Manager) forwardEvent(event events.Event) {
	message := Message{
		ID:        event.ID,
		Type:      string(event.Type),
		Channel:   event.Channel.String(),
		Data:      event.Data,
		Timestamp: event.Timestamp,
	}
	if event.CompanyID != nil {
		message.CompanyID = event.CompanyID.String()
	}

	m.hub.broadcast <- message
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")

	defer func() {
		c.Manager.hub.unregister <- c
		c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	_ = c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		_, payload, err := c.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Er("unexpected close", err, "clientID", c.ID)
			}
			return
		}

		// The stream is server push only; inbound frames are ignored
		// except for keeping the read deadline honest.
		var message Message
		if err := json.Unmarshal(payload, &message); err != nil {
			log.Warn("dropping malformed client frame", "clientID", c.ID)
		}
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("failed to write message", err, "clientID", c.ID)
				return
			}
		case <-ticker.C:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
