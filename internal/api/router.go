package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sanghyxuk/number-baseball/internal/api/handler"
	apimiddleware "github.com/sanghyxuk/number-baseball/internal/api/middleware"
	"github.com/sanghyxuk/number-baseball/internal/services/room"
	"github.com/sanghyxuk/number-baseball/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Registry       *room.Registry
	SessionService *session.Service

	// WSHandler serves websocket upgrades at /ws. Optional; omitted in
	// tests that only exercise the REST surface.
	WSHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.SessionService)
	healthHandler := handler.NewHealthHandler(cfg.Registry, cfg.SessionService)

	sessionMiddleware := apimiddleware.Session(cfg.SessionService)
	loggingMiddleware := apimiddleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Room routes; create and join mint their own sessions
	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet)

	// Session-scoped routes
	current := api.PathPrefix("/session").Subrouter()
	current.Use(sessionMiddleware)
	current.HandleFunc("/room", roomHandler.GetCurrent).Methods(http.MethodGet)
	current.HandleFunc("/room", roomHandler.Leave).Methods(http.MethodDelete)

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	// Websocket endpoint lives outside the API prefix
	if cfg.WSHandler != nil {
		r.Handle("/ws", cfg.WSHandler)
	}

	return r
}
