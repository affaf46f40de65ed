// Package ws carries the realtime surface: a room-based hub that services
// publish into and per-connection clients that relay events to browsers.
package ws

import (
	"context"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/chatwire/chatwire/internal/logging"
	"github.com/chatwire/chatwire/internal/services"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Hub tracks connected clients and their room memberships. It implements
// services.Publisher; delivery is best effort and clients whose send buffer
// is full miss the event.
type Hub struct {
	users  services.UserServiceInterface
	logger *logging.Logger

	mu      sync.RWMutex
	rooms   map[string]map[*Client]bool
	clients map[*Client]bool
	online  map[string]int // connections per user email
}

func NewHub(users services.UserServiceInterface, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default
	}
	return &Hub{
		users:   users,
		logger:  logger,
		rooms:   make(map[string]map[*Client]bool),
		clients: make(map[*Client]bool),
		online:  make(map[string]int),
	}
}

// Publish sends the event to every client in the room.
func (h *Hub) Publish(room, event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		h.logger.Error("encoding event", map[string]interface{}{"event": event, "error": err.Error()})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		client.trySend(data)
	}
}

// publishExcept sends the event to every client in the room except skip.
// Used for typing indicators and system messages the actor should not echo.
func (h *Hub) publishExcept(room string, skip *Client, event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		h.logger.Error("encoding event", map[string]interface{}{"event": event, "error": err.Error()})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		if client != skip {
			client.trySend(data)
		}
	}
}

// broadcastAll sends the event to every connected client.
func (h *Hub) broadcastAll(event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		h.logger.Error("encoding event", map[string]interface{}{"event": event, "error": err.Error()})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		client.trySend(data)
	}
}

// Join adds the client to a room.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	c.rooms[room] = true
}

// Leave removes the client from a room.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) leaveLocked(c *Client, room string) {
	if members := h.rooms[room]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

// register adds a new connection. The client automatically joins its personal
// room; the first connection of an identity flips the user online.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.online[c.email]++
	first := h.online[c.email] == 1
	h.mu.Unlock()

	h.Join(c, services.UserRoom(c.email))

	if first {
		if err := h.users.SetOnline(context.Background(), c.email, true); err != nil {
			h.logger.Error("marking user online", map[string]interface{}{"user": c.email, "error": err.Error()})
		}
		h.broadcastAll("userOnline", map[string]any{"userEmail": c.email})
	}
}

// unregister drops a connection and all its rooms. The last connection of an
// identity flips the user offline.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	h.online[c.email]--
	last := h.online[c.email] == 0
	if last {
		delete(h.online, c.email)
	}
	h.mu.Unlock()

	close(c.send)

	if last {
		if err := h.users.SetOnline(context.Background(), c.email, false); err != nil {
			h.logger.Error("marking user offline", map[string]interface{}{"user": c.email, "error": err.Error()})
		}
		h.broadcastAll("userOffline", map[string]any{"userEmail": c.email})
	}
}

func encode(event string, payload any) ([]byte, error) {
	return json.Marshal(Envelope{Event: event, Payload: payload})
}
