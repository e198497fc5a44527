// Package ws is the websocket transport: it upgrades connections,
// runs the gorilla read/write pumps, dispatches inbound actions to the
// game service, and implements the broadcast gateway for outbound
// messages.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/sanghyxuk/number-baseball/internal/broadcast"
	"github.com/sanghyxuk/number-baseball/internal/dependencies/clock"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/protocol"
)

// SessionResolver maps a room code to its member sessions, for topic
// fan-out. Injected after construction to keep the transport from
// depending on the registry directly.
type SessionResolver func(ctx context.Context, code model.RoomCode) []model.SessionID

// Hub tracks connected clients by session and fans outbound messages
// out to them.
type Hub struct {
	clock   clock.Clock
	logger  *slog.Logger
	resolve SessionResolver

	mu      sync.RWMutex
	clients map[model.SessionID]*Client
}

// NewHub creates a hub with no room resolver attached.
func NewHub(clk clock.Clock, logger *slog.Logger) *Hub {
	return &Hub{
		clock:   clk,
		logger:  logger.With(slog.String("component", "ws-hub")),
		clients: make(map[model.SessionID]*Client),
	}
}

// SetRoomResolver attaches the room membership lookup. Must be called
// before any room publish.
func (h *Hub) SetRoomResolver(resolve SessionResolver) {
	h.resolve = resolve
}

// register attaches a client, closing any previous connection for the
// same session.
func (h *Hub) register(client *Client) {
	h.mu.Lock()
	old, replaced := h.clients[client.sessionID]
	h.clients[client.sessionID] = client
	h.mu.Unlock()

	if replaced {
		old.closeSend()
		h.logger.Info("connection replaced", slog.String("session", string(client.sessionID)))
	}
}

// unregister detaches a client if it is still the session's current
// connection.
func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if current, ok := h.clients[client.sessionID]; ok && current == client {
		delete(h.clients, client.sessionID)
	}
	h.mu.Unlock()
	client.closeSend()
}

// PublishToRoom delivers a message to every session in the room.
func (h *Hub) PublishToRoom(ctx context.Context, code model.RoomCode, msgType protocol.MessageType, payload any) {
	if h.resolve == nil {
		return
	}
	data, err := h.marshal(msgType, payload)
	if err != nil {
		return
	}
	for _, sessionID := range h.resolve(ctx, code) {
		h.send(sessionID, msgType, data)
	}
}

// PublishToSession delivers a message to one session only.
func (h *Hub) PublishToSession(ctx context.Context, sessionID model.SessionID, msgType protocol.MessageType, payload any) {
	data, err := h.marshal(msgType, payload)
	if err != nil {
		return
	}
	h.send(sessionID, msgType, data)
}

func (h *Hub) marshal(msgType protocol.MessageType, payload any) ([]byte, error) {
	data, err := json.Marshal(protocol.NewEnvelope(msgType, payload, h.clock.Now()))
	if err != nil {
		h.logger.Error("envelope marshal failed",
			slog.String("type", string(msgType)),
			slog.String("error", err.Error()))
		return nil, err
	}
	return data, nil
}

// send queues a message for a session without blocking. An absent
// session or a full buffer drops the message.
func (h *Hub) send(sessionID model.SessionID, msgType protocol.MessageType, data []byte) {
	h.mu.RLock()
	client, ok := h.clients[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.Warn("message dropped - client buffer full",
			slog.String("session", string(sessionID)),
			slog.String("type", string(msgType)))
	}
}

// ClientCount returns the number of connected sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[model.SessionID]*Client)
	h.mu.Unlock()

	for _, client := range clients {
		client.closeSend()
	}
	h.logger.Info("ws hub closed", slog.Int("disconnected_clients", len(clients)))
}

var _ broadcast.Gateway = (*Hub)(nil)
