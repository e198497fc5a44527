// Package broadcast defines the outbound message contract. Delivery is
// fire-and-forget, at-most-once: the gateway never blocks a game
// mutation on a slow or absent subscriber.
package broadcast

import (
	"context"

	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/protocol"
)

// Gateway publishes protocol messages to room topics or to a single
// session's private channel.
type Gateway interface {
	// PublishToRoom delivers to every subscriber of the room's topic.
	PublishToRoom(ctx context.Context, code model.RoomCode, msgType protocol.MessageType, payload any)

	// PublishToSession delivers only to the session's private channel.
	PublishToSession(ctx context.Context, sessionID model.SessionID, msgType protocol.MessageType, payload any)
}

// Nop is a gateway that discards everything. Used where no transport is
// attached, such as the CLI factory.
type Nop struct{}

func (Nop) PublishToRoom(context.Context, model.RoomCode, protocol.MessageType, any)     {}
func (Nop) PublishToSession(context.Context, model.SessionID, protocol.MessageType, any) {}

var _ Gateway = Nop{}
