package notifyws

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
)

// Hub fans server-side events out to a user's connected clients. It is
// one-directional: clients only listen, the reconciler and payment flow
// publish. Messages for users with no open socket are dropped.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	events     chan *Event
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

type Event struct {
	Type      string `json:"type"`
	UserID    string `json:"-"`
	Plan      string `json:"plan,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan *Event, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case event := <-h.events:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// NotifyDowngrade tells a user their paid plan lapsed to basic. The message
// is the Persian copy the apps show verbatim.
func (h *Hub) NotifyDowngrade(userID int64) {
	h.Publish(&Event{
		Type:    "subscription_expired",
		UserID:  strconv.FormatInt(userID, 10),
		Plan:    "basic",
		Message: "اشتراک شما به پایان رسید و حساب شما به طرح پایه منتقل شد",
	})
}

func (h *Hub) Publish(event *Event) {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	select {
	case h.events <- event:
	default:
		log.Printf("notify hub: dropping %s event for user %s", event.Type, event.UserID)
	}
}

func (h *Hub) deliver(event *Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("notify hub encode event: %v", err)
		return
	}

	set, ok := h.clients[event.UserID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, event.UserID)
	}
}

// ReadPump discards inbound frames; its job is detecting the close.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
