package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/chatwire/chatwire/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationServiceInterface
}

func NewNotificationHandler(notificationService services.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type NotificationIDBody struct {
	ID string `json:"id"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	notifications, err := h.notificationService.List(r.Context(), user.UserEmail)
	if err != nil {
		log.Printf("Error listing notifications: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(email, id string) error {
		return h.notificationService.MarkRead(r.Context(), email, id)
	})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(email, id string) error {
		return h.notificationService.Delete(r.Context(), email, id)
	})
}

func (h *NotificationHandler) withID(w http.ResponseWriter, r *http.Request, action func(email, id string) error) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body NotificationIDBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.ID == "" {
		writeError(w, http.StatusBadRequest, "Notification id is required")
		return
	}

	err := action(user.UserEmail, body.ID)
	switch {
	case errors.Is(err, services.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "Notification not found")
	case err != nil:
		log.Printf("Error updating notification: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
