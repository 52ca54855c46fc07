package sse

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Client is one open event stream. A user may hold several (one per tab).
type Client struct {
	ID     string
	UserID uuid.UUID
	Send   chan []byte
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *UserMessage
	mu         sync.RWMutex
}

// UserMessage is delivered to every stream owned by one of UserIDs.
type UserMessage struct {
	UserIDs []uuid.UUID
	Event   Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *UserMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Event)
			if err != nil {
				continue
			}
			targets := make(map[uuid.UUID]bool, len(msg.UserIDs))
			for _, id := range msg.UserIDs {
				targets[id] = true
			}

			h.mu.RLock()
			for _, client := range h.clients {
				if targets[client.UserID] {
					select {
					case client.Send <- data:
					default:
						// slow consumer, drop
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SendToUsers queues event for the given users. It never blocks on a full queue.
func (h *Hub) SendToUsers(userIDs []uuid.UUID, eventType string, data any) {
	if len(userIDs) == 0 {
		return
	}
	select {
	case h.broadcast <- &UserMessage{UserIDs: userIDs, Event: Event{Type: eventType, Data: data}}:
	default:
	}
}

// Connected reports whether userID has at least one open stream.
func (h *Hub) Connected(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.UserID == userID {
			return true
		}
	}
	return false
}
