package handlers

import (
	"log"
	"net/http"

	"github.com/chatwire/chatwire/internal/services"
)

type UserHandler struct {
	userService services.UserServiceInterface
}

func NewUserHandler(userService services.UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns the user directory, each entry annotated with the caller's
// friendship status toward that user.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	summaries, err := h.userService.List(r.Context(), user.UserEmail)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"users": summaries})
}
