package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/chatwire/chatwire/internal/services"
)

type FriendHandler struct {
	friendService services.FriendServiceInterface
}

func NewFriendHandler(friendService services.FriendServiceInterface) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

type FriendRequestBody struct {
	Email string `json:"email"`
}

type PrivateMessageBody struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// List returns the caller's friends with names and presence.
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	friends, err := h.friendService.ListFriends(r.Context(), user.UserEmail)
	if err != nil {
		log.Printf("Error listing friends: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"friends": friends})
}

// Requests returns the caller's pending sent and received requests.
func (h *FriendHandler) Requests(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	pending, err := h.friendService.Requests(r.Context(), user.UserEmail)
	if err != nil {
		log.Printf("Error listing friend requests: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, pending)
}

// handleRequest is shared by the four request-lifecycle endpoints.
func (h *FriendHandler) handleRequest(w http.ResponseWriter, r *http.Request, action func(fromEmail, toEmail string) error) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body FriendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	err := action(user.UserEmail, body.Email)
	switch {
	case errors.Is(err, services.ErrSelfRequest):
		writeError(w, http.StatusBadRequest, "Cannot send a friend request to yourself")
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrAlreadyFriends):
		writeError(w, http.StatusConflict, "Already friends")
	case errors.Is(err, services.ErrRequestPending):
		writeError(w, http.StatusConflict, "Friend request already pending")
	case errors.Is(err, services.ErrNoRequest):
		writeError(w, http.StatusNotFound, "No pending friend request")
	case err != nil:
		log.Printf("Error handling friend request: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (h *FriendHandler) Send(w http.ResponseWriter, r *http.Request) {
	h.handleRequest(w, r, func(from, to string) error {
		return h.friendService.SendRequest(r.Context(), from, to)
	})
}

func (h *FriendHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.handleRequest(w, r, func(from, to string) error {
		return h.friendService.CancelRequest(r.Context(), from, to)
	})
}

func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.handleRequest(w, r, func(owner, requester string) error {
		return h.friendService.AcceptRequest(r.Context(), owner, requester)
	})
}

func (h *FriendHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.handleRequest(w, r, func(owner, requester string) error {
		return h.friendService.RejectRequest(r.Context(), owner, requester)
	})
}

// SendMessage posts a private message to a friend.
func (h *FriendHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body PrivateMessageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.To == "" {
		writeError(w, http.StatusBadRequest, "Recipient is required")
		return
	}

	msg, err := h.friendService.SendMessage(r.Context(), user.UserEmail, body.To, body.Text)
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "Message text is required")
	case errors.Is(err, services.ErrNotFriends):
		writeError(w, http.StatusForbidden, "Not friends with this user")
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case err != nil:
		log.Printf("Error sending message: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusCreated, msg)
	}
}

// Messages returns the caller's copy of the conversation with ?with=<email>.
func (h *FriendHandler) Messages(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	with := r.URL.Query().Get("with")
	if with == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'with' is required")
		return
	}

	messages, err := h.friendService.Conversation(r.Context(), user.UserEmail, with)
	switch {
	case errors.Is(err, services.ErrNotFriends):
		writeError(w, http.StatusForbidden, "Not friends with this user")
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case err != nil:
		log.Printf("Error getting conversation: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
	}
}
