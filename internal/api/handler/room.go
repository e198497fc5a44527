package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sanghyxuk/number-baseball/internal/api/middleware"
	"github.com/sanghyxuk/number-baseball/internal/api/request"
	"github.com/sanghyxuk/number-baseball/internal/api/response"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/services/room"
	"github.com/sanghyxuk/number-baseball/internal/services/session"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	registry *room.Registry
	sessions *session.Service
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(registry *room.Registry, sessions *session.Service) *RoomHandler {
	return &RoomHandler{
		registry: registry,
		sessions: sessions,
	}
}

// Create handles POST /api/v1/rooms
// Mints a session for the creator and opens a room with it.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Empty body means default settings
		req = request.CreateRoomRequest{}
	}

	settings := model.DefaultSettings()
	if req.Digits != 0 {
		settings = model.GameSettings{
			Digits:         req.Digits,
			AllowZero:      req.AllowZero,
			AllowDuplicate: req.AllowDuplicate,
		}
	}
	if !settings.Valid() {
		WriteError(w, model.ErrInvalidSettings)
		return
	}

	playerSession, err := h.sessions.Create(r.Context(), req.Nickname)
	if err != nil {
		WriteError(w, err)
		return
	}

	created, err := h.registry.CreateRoom(r.Context(), playerSession.ID, settings)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateRoomResponse{
		Session: response.SessionFromModel(playerSession),
		Room:    response.RoomFromModel(created),
	})
}

// Join handles POST /api/v1/rooms/{code}/join
// Mints a session for the joiner and adds them to the room.
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := room.NormalizeCode(mux.Vars(r)["code"])

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = request.JoinRoomRequest{}
	}

	playerSession, err := h.sessions.Create(r.Context(), req.Nickname)
	if err != nil {
		WriteError(w, err)
		return
	}

	joined, err := h.registry.JoinRoom(r.Context(), code, playerSession.ID)
	if err != nil {
		// Don't leak a session that never entered a room
		_ = h.sessions.Remove(r.Context(), playerSession.ID)
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CreateRoomResponse{
		Session: response.SessionFromModel(playerSession),
		Room:    response.RoomFromModel(joined),
	})
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := room.NormalizeCode(mux.Vars(r)["code"])

	found, err := h.registry.FindByCode(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(found))
}

// GetCurrent handles GET /api/v1/session/room
func (h *RoomHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	playerSession := middleware.MustGetSession(r.Context())

	found, err := h.registry.FindBySession(r.Context(), playerSession.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(found))
}

// Leave handles DELETE /api/v1/session/room
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	playerSession := middleware.MustGetSession(r.Context())

	if err := h.registry.LeaveRoom(r.Context(), playerSession.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
