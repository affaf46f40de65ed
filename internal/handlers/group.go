package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/chatwire/chatwire/internal/models"
	"github.com/chatwire/chatwire/internal/services"
)

type GroupHandler struct {
	groupService services.GroupServiceInterface
}

func NewGroupHandler(groupService services.GroupServiceInterface) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type CreateGroupRequest struct {
	GroupName        string `json:"groupName"`
	GroupDescription string `json:"groupDescription"`
	NeedRequest      bool   `json:"needRequest"`
}

type JoinGroupRequest struct {
	GroupName string `json:"groupName"`
}

type ResolveRequestBody struct {
	GroupName string `json:"groupName"`
	UserEmail string `json:"userEmail"`
	Action    string `json:"action"` // accept | reject
}

type GroupMessageBody struct {
	GroupName string `json:"groupName"`
	Text      string `json:"text"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	group, err := h.groupService.Create(r.Context(), models.CreateGroupParams{
		Name:        req.GroupName,
		Description: req.GroupDescription,
		NeedRequest: req.NeedRequest,
		Creator:     user.UserEmail,
	})
	switch {
	case errors.Is(err, services.ErrGroupNameRequired):
		writeError(w, http.StatusBadRequest, "Group name is required")
	case errors.Is(err, services.ErrGroupExists):
		writeError(w, http.StatusConflict, "Group already exists")
	case err != nil:
		log.Printf("Error creating group: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusCreated, group.Summary())
	}
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.List(r.Context())
	if err != nil {
		log.Printf("Error listing groups: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// Join files a join request, or joins immediately when the group is open.
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req JoinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GroupName == "" {
		writeError(w, http.StatusBadRequest, "Group name is required")
		return
	}

	status, err := h.groupService.RequestJoin(r.Context(), req.GroupName, user.UserEmail)
	switch {
	case errors.Is(err, services.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, "Group not found")
	case errors.Is(err, services.ErrAlreadyMember):
		writeError(w, http.StatusConflict, "Already a member")
	case errors.Is(err, services.ErrJoinPending):
		writeError(w, http.StatusConflict, "Join request already pending")
	case err != nil:
		log.Printf("Error joining group: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": status})
	}
}

// Requests returns pending join requests across every group the caller
// administers.
func (h *GroupHandler) Requests(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	requests, err := h.groupService.RequestsForAdmin(r.Context(), user.UserEmail)
	if err != nil {
		log.Printf("Error listing join requests: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

// Resolve accepts or rejects a pending join request.
func (h *GroupHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req ResolveRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Action != "accept" && req.Action != "reject" {
		writeError(w, http.StatusBadRequest, "Action must be accept or reject")
		return
	}

	err := h.groupService.Resolve(r.Context(), req.GroupName, user.UserEmail, req.UserEmail, req.Action == "accept")
	switch {
	case errors.Is(err, services.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, "Group not found")
	case errors.Is(err, services.ErrNotAdmin):
		writeError(w, http.StatusForbidden, "Only group admins can resolve requests")
	case errors.Is(err, services.ErrNoJoinRequest):
		writeError(w, http.StatusNotFound, "No pending join request")
	case err != nil:
		log.Printf("Error resolving join request: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// PostMessage appends a message to the group's logs.
func (h *GroupHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req GroupMessageBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GroupName == "" {
		writeError(w, http.StatusBadRequest, "Group name is required")
		return
	}

	msg, err := h.groupService.PostMessage(r.Context(), req.GroupName, user.UserEmail, req.Text)
	switch {
	case errors.Is(err, services.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, "Group not found")
	case errors.Is(err, services.ErrNotMember):
		writeError(w, http.StatusForbidden, "Not a member of this group")
	case errors.Is(err, services.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "Message text is required")
	case err != nil:
		log.Printf("Error posting group message: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusCreated, msg)
	}
}

// Messages returns the caller's copy of the group log with ?group=<name>.
func (h *GroupHandler) Messages(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	name := r.URL.Query().Get("group")
	if name == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'group' is required")
		return
	}

	messages, err := h.groupService.History(r.Context(), name, user.UserEmail)
	switch {
	case errors.Is(err, services.ErrNotMember):
		writeError(w, http.StatusForbidden, "Not a member of this group")
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case err != nil:
		log.Printf("Error getting group history: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
	}
}
