package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthCheckFunc adapts a plain ping function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) Health(ctx context.Context) error {
	return f(ctx)
}

type HealthHandler struct {
	store    HealthChecker
	sessions HealthChecker
}

func NewHealthHandler(store, sessions HealthChecker) *HealthHandler {
	return &HealthHandler{
		store:    store,
		sessions: sessions,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Checks:    make(map[string]string),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.store.Health(ctx); err != nil {
		response.Status = "unhealthy"
		response.Checks["store"] = "unhealthy: " + err.Error()
	} else {
		response.Checks["store"] = "healthy"
	}

	if err := h.sessions.Health(ctx); err != nil {
		response.Status = "unhealthy"
		response.Checks["sessions"] = "unhealthy: " + err.Error()
	} else {
		response.Checks["sessions"] = "healthy"
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Status == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(response)
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.store.Health(ctx) != nil || h.sessions.Health(ctx) != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not ready"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}
