package ws

import (
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/chatwire/chatwire/internal/handlers"
	"github.com/chatwire/chatwire/internal/logging"
	"github.com/chatwire/chatwire/internal/services"
)

// Handler upgrades authenticated requests to WebSocket connections and hands
// them to the hub.
type Handler struct {
	hub      *Hub
	friends  services.FriendServiceInterface
	groups   services.GroupServiceInterface
	logger   *logging.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, friends services.FriendServiceInterface, groups services.GroupServiceInterface, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default
	}
	return &Handler{
		hub:     hub,
		friends: friends,
		groups:  groups,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameOrigin,
		},
	}
}

// sameOrigin accepts requests without an Origin header (non-browser clients)
// and browser requests from the server's own host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	user := handlers.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}

	client := &Client{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		email:   user.UserEmail,
		name:    user.UserName,
		friends: h.friends,
		groups:  h.groups,
		rooms:   make(map[string]bool),
	}

	h.hub.register(client)
	h.logger.Info("websocket connected", map[string]interface{}{"user": client.email})

	go client.writePump()
	go client.readPump()
}
