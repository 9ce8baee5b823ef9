// Package notify delivers events to a user's live websocket sessions.
// Delivery is best-effort: no acknowledgement, no retry, nothing is queued
// for offline users.
package notify

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one live websocket connection bound to an authenticated user.
type Client struct {
	UserID string
	Conn   *websocket.Conn

	mu sync.Mutex // serializes writes; gorilla conns allow one concurrent writer
}

// WriteJSON sends a marshalled payload over the connection.
func (c *Client) WriteJSON(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks live connections per user and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// ConnectionCount reports the number of live connections for a user.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish sends the event to every live connection of the user. Zero
// connections is a no-op; write failures are ignored.
func (h *Hub) Publish(userID string, event any) {
	msg, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.WriteJSON(msg)
	}
}
