package handler

import (
	"net/http"

	"github.com/sanghyxuk/number-baseball/internal/api/response"
	"github.com/sanghyxuk/number-baseball/internal/services/room"
	"github.com/sanghyxuk/number-baseball/internal/services/session"
)

// HealthHandler reports service liveness and basic load counts
type HealthHandler struct {
	registry *room.Registry
	sessions *session.Service
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(registry *room.Registry, sessions *session.Service) *HealthHandler {
	return &HealthHandler{
		registry: registry,
		sessions: sessions,
	}
}

// Get handles GET /api/v1/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.registry.ActiveRoomCount(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	sessions, err := h.sessions.ActiveCount(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Health{
		Status:         "ok",
		ActiveRooms:    rooms,
		ActiveSessions: sessions,
	})
}
