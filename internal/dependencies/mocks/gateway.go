package mocks

import (
	"context"
	"sync"

	"github.com/sanghyxuk/number-baseball/internal/broadcast"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/protocol"
)

// PublishedMessage records one gateway publish.
type PublishedMessage struct {
	// RoomCode is set for room publishes, SessionID for private ones
	RoomCode  model.RoomCode
	SessionID model.SessionID
	Type      protocol.MessageType
	Payload   any
}

// MockGateway records published messages for assertions in tests
type MockGateway struct {
	mu       sync.Mutex
	Messages []PublishedMessage
}

// Ensure MockGateway implements Gateway
var _ broadcast.Gateway = (*MockGateway)(nil)

// NewMockGateway creates a new MockGateway
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// PublishToRoom records a room publish
func (g *MockGateway) PublishToRoom(_ context.Context, code model.RoomCode, msgType protocol.MessageType, payload any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Messages = append(g.Messages, PublishedMessage{RoomCode: code, Type: msgType, Payload: payload})
}

// PublishToSession records a private publish
func (g *MockGateway) PublishToSession(_ context.Context, sessionID model.SessionID, msgType protocol.MessageType, payload any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Messages = append(g.Messages, PublishedMessage{SessionID: sessionID, Type: msgType, Payload: payload})
}

// MessagesOfType returns recorded messages matching the type
func (g *MockGateway) MessagesOfType(msgType protocol.MessageType) []PublishedMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []PublishedMessage
	for _, m := range g.Messages {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

// LastMessage returns the most recent publish, or nil if none
func (g *MockGateway) LastMessage() *PublishedMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Messages) == 0 {
		return nil
	}
	m := g.Messages[len(g.Messages)-1]
	return &m
}

// Reset clears all recorded messages
func (g *MockGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Messages = nil
}
