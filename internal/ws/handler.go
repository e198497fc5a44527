package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/websocket"

	"github.com/sanghyxuk/number-baseball/internal/dependencies/random"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/protocol"
	"github.com/sanghyxuk/number-baseball/internal/services/connection"
	"github.com/sanghyxuk/number-baseball/internal/services/game"
)

const (
	connIDLength   = 12
	connIDAlphabet = "0123456789abcdef"
)

// Inbound action types accepted from clients.
const (
	ActionReady     = "ready"
	ActionSetAnswer = "set_answer"
	ActionGuess     = "guess"
	ActionAbandon   = "abandon"
	ActionLeave     = "leave"
	ActionSuggest   = "suggest"
)

// inboundMessage is the frame clients send.
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type readyPayload struct {
	Ready bool `json:"ready"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type guessPayload struct {
	Guess string `json:"guess"`
}

// Handler upgrades HTTP requests to websocket connections and routes
// inbound actions to the game service.
type Handler struct {
	hub      *Hub
	tracker  *connection.Tracker
	games    *game.Service
	random   random.Random
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler.
func NewHandler(
	hub *Hub,
	tracker *connection.Tracker,
	games *game.Service,
	rnd random.Random,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		hub:     hub,
		tracker: tracker,
		games:   games,
		random:  rnd,
		logger:  logger.With(slog.String("component", "ws-handler")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Game clients connect from arbitrary origins
				return true
			},
		},
	}
}

// ServeHTTP handles GET /ws?session_id=<id>.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	connID := h.random.String(connIDLength, connIDAlphabet)
	client := newClient(connID, sessionID, conn)

	ctx := r.Context()
	if err := h.tracker.HandleConnect(ctx, connID, sessionID); err != nil {
		h.logger.Warn("connection rejected",
			slog.String("session", string(sessionID)),
			slog.String("error", err.Error()))
		h.writeRejection(conn, err)
		conn.Close()
		return
	}

	h.hub.register(client)

	h.logger.Info("websocket connected",
		slog.String("conn", connID),
		slog.String("session", string(sessionID)))

	go client.writePump()
	client.readPump(
		func(message []byte) {
			h.dispatch(context.Background(), sessionID, message)
		},
		func() {
			h.hub.unregister(client)
			h.tracker.HandleDisconnect(context.Background(), connID)
			h.logger.Info("websocket disconnected",
				slog.String("conn", connID),
				slog.String("session", string(sessionID)))
		},
	)
}

// dispatch routes a single inbound frame. Any error comes back to the
// acting session as one ERROR message; panics are contained per frame.
func (h *Handler) dispatch(ctx context.Context, sessionID model.SessionID, message []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic handling message",
				slog.String("session", string(sessionID)),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			h.hub.PublishToSession(ctx, sessionID, protocol.TypeError, protocol.ErrorPayload{
				ErrorCode: protocol.CodeServerError,
				Message:   "internal server error",
			})
		}
	}()

	var msg inboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		h.hub.PublishToSession(ctx, sessionID, protocol.TypeError, protocol.ErrorPayload{
			ErrorCode: protocol.CodeInvalidRequest,
			Message:   "malformed message",
		})
		return
	}

	if err := h.handleAction(ctx, sessionID, msg); err != nil {
		h.hub.PublishToSession(ctx, sessionID, protocol.TypeError, protocol.ErrorPayloadFor(err))
	}
}

func (h *Handler) handleAction(ctx context.Context, sessionID model.SessionID, msg inboundMessage) error {
	switch msg.Type {
	case ActionReady:
		var p readyPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return model.ErrInvalidRequest
		}
		return h.games.SetReady(ctx, sessionID, p.Ready)

	case ActionSetAnswer:
		var p answerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return model.ErrInvalidRequest
		}
		return h.games.SetAnswer(ctx, sessionID, p.Answer)

	case ActionGuess:
		var p guessPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return model.ErrInvalidRequest
		}
		return h.games.Guess(ctx, sessionID, p.Guess)

	case ActionAbandon:
		return h.games.Abandon(ctx, sessionID)

	case ActionLeave:
		return h.games.Leave(ctx, sessionID)

	case ActionSuggest:
		return h.games.SuggestAnswer(ctx, sessionID)

	default:
		return model.ErrInvalidRequest
	}
}

// writeRejection sends one ERROR frame on a connection that never made
// it into the hub.
func (h *Handler) writeRejection(conn *websocket.Conn, err error) {
	payload := protocol.ErrorPayloadFor(err)
	data, marshalErr := json.Marshal(protocol.Envelope{
		Type:    protocol.TypeError,
		Payload: payload,
	})
	if marshalErr != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}
