package sse

import (
	"sync"

	"github.com/google/uuid"

	"github.com/roamswap/roamswap/internal/domain/notification"
)

// clientBuffer bounds each subscriber's queue. A client that stops reading
// loses messages instead of blocking delivery to everyone else.
const clientBuffer = 16

// Client is one live event-stream subscription. A user may hold several
// (multiple tabs, devices).
type Client struct {
	ID       string
	UserID   uuid.UUID
	Messages chan *notification.Notification

	closeOnce sync.Once
}

// Close closes the message channel. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.Messages)
	})
}

// Hub fans notifications out to connected event-stream clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Subscribe registers a new client for the user and returns it. The caller
// must Unregister it when the stream ends.
func (h *Hub) Subscribe(userID uuid.UUID) *Client {
	c := &Client{
		ID:       uuid.NewString(),
		UserID:   userID,
		Messages: make(chan *notification.Notification, clientBuffer),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	return c
}

// Unregister removes and closes a client.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		c.Close()
		delete(h.clients, clientID)
	}
}

// ClientCount reports how many streams are currently open.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToUser delivers a notification to every stream the user holds.
// Full client buffers are skipped.
func (h *Hub) BroadcastToUser(userID uuid.UUID, n *notification.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.UserID == userID {
			trySend(c, n)
		}
	}
}

// Stop closes every open stream.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
}

func trySend(c *Client, n *notification.Notification) bool {
	select {
	case c.Messages <- n:
		return true
	default:
		return false
	}
}
