package ws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chatwire/chatwire/internal/models"
	"github.com/chatwire/chatwire/internal/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 64
)

// Client is one WebSocket connection of an authenticated user. A user may
// hold several connections at once; each tracks its own room set.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	email   string
	name    string
	friends services.FriendServiceInterface
	groups  services.GroupServiceInterface

	// rooms is owned by the hub and only touched under its lock.
	rooms map[string]bool
}

// trySend queues data without blocking; slow clients lose the event.
func (c *Client) trySend(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendEvent(event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		return
	}
	c.trySend(data)
}

func (c *Client) sendError(message string) {
	c.sendEvent("error", map[string]any{"message": message})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var ev inboundEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			c.sendError("invalid event")
			continue
		}
		c.dispatch(context.Background(), ev)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) dispatch(ctx context.Context, ev inboundEvent) {
	switch ev.Event {
	case "join":
		c.handleJoin(ctx, ev.Room)
	case "leaveRoom":
		c.handleLeave(ctx, ev.Room)
	case "sendMessage":
		c.handleGroupMessage(ctx, ev.Room, ev.Text)
	case "sendPrivateMessage":
		c.handlePrivateMessage(ctx, ev.To, ev.Text)
	case "typing":
		c.handleTyping(ev.To, ev.Typing)
	default:
		c.sendError(fmt.Sprintf("unknown event: %s", ev.Event))
	}
}

// handleJoin resolves the room name: an existing group name gets group
// semantics, anything else is treated as a canonical private pair room.
func (c *Client) handleJoin(ctx context.Context, room string) {
	if room == "" {
		c.sendError("room is required")
		return
	}

	group, err := c.groups.Get(ctx, room)
	if err == nil {
		c.joinGroup(ctx, group)
		return
	}
	if !errors.Is(err, services.ErrGroupNotFound) {
		c.sendError("could not join room")
		return
	}

	c.joinPair(ctx, room)
}

func (c *Client) joinGroup(ctx context.Context, group *models.Group) {
	name := group.GroupName

	if !group.IsMember(c.email) {
		// Joining a group over the socket files the join request; open
		// groups admit immediately.
		status, err := c.groups.RequestJoin(ctx, name, c.email)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		if status == models.MembershipStatusPending {
			c.sendEvent("system", map[string]any{
				"room": name,
				"text": fmt.Sprintf("Join request for %s sent", name),
			})
			return
		}
	}

	c.hub.Join(c, services.GroupRoom(name))

	history, err := c.groups.History(ctx, name, c.email)
	if err == nil {
		c.sendEvent("history", map[string]any{"room": name, "messages": history})
	}

	c.hub.publishExcept(services.GroupRoom(name), c, "system", map[string]any{
		"room": name,
		"text": fmt.Sprintf("%s joined the room", c.name),
	})
}

func (c *Client) joinPair(ctx context.Context, room string) {
	peer, ok := pairPeer(room, c.email)
	if !ok {
		c.sendError("unknown room")
		return
	}

	history, err := c.friends.Conversation(ctx, c.email, peer)
	if errors.Is(err, services.ErrNotFriends) {
		c.sendError("not friends with this user")
		return
	}
	if err != nil {
		c.sendError("could not join room")
		return
	}

	c.hub.Join(c, room)
	c.sendEvent("history", map[string]any{"room": room, "messages": history})
}

func (c *Client) handleLeave(ctx context.Context, room string) {
	if room == "" {
		c.sendError("room is required")
		return
	}

	if _, err := c.groups.Get(ctx, room); err == nil {
		c.hub.Leave(c, services.GroupRoom(room))
		c.hub.Publish(services.GroupRoom(room), "system", map[string]any{
			"room": room,
			"text": fmt.Sprintf("%s left the room", c.name),
		})
		return
	}
	c.hub.Leave(c, room)
}

func (c *Client) handleGroupMessage(ctx context.Context, room, text string) {
	if _, err := c.groups.PostMessage(ctx, room, c.email, text); err != nil {
		c.sendError(err.Error())
	}
}

func (c *Client) handlePrivateMessage(ctx context.Context, to, text string) {
	if _, err := c.friends.SendMessage(ctx, c.email, to, text); err != nil {
		c.sendError(err.Error())
	}
}

// handleTyping relays the indicator to the pair room without persisting it.
func (c *Client) handleTyping(to string, typing bool) {
	if to == "" {
		return
	}
	room := services.PairRoom(c.email, to)
	c.hub.publishExcept(room, c, "typing", map[string]any{
		"from":   c.email,
		"typing": typing,
	})
}

// pairPeer extracts the other participant from a canonical pair room name,
// verifying the caller is a participant and the name round-trips.
func pairPeer(room, email string) (string, bool) {
	if peer, ok := strings.CutPrefix(room, email+"-"); ok && services.PairRoom(email, peer) == room {
		return peer, true
	}
	if peer, ok := strings.CutSuffix(room, "-"+email); ok && services.PairRoom(email, peer) == room {
		return peer, true
	}
	return "", false
}
