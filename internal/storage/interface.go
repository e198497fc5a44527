package storage

import (
	"context"

	"github.com/sanghyxuk/number-baseball/internal/model"
)

// Storage defines the interface for room and session state. All state
// is process-lifetime; backends exist so tests and deployments can
// swap the in-memory store for Redis without touching the registries.
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.PlayerSession) error
	GetSession(ctx context.Context, id model.SessionID) (*model.PlayerSession, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	SessionCount(ctx context.Context) (int, error)

	// Room operations
	SaveRoom(ctx context.Context, room *model.GameRoom) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.GameRoom, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)
	ListRooms(ctx context.Context) ([]*model.GameRoom, error)
	RoomCount(ctx context.Context) (int, error)

	// Session -> room index operations
	SetSessionRoom(ctx context.Context, id model.SessionID, code model.RoomCode) error
	GetSessionRoom(ctx context.Context, id model.SessionID) (model.RoomCode, error)
	DeleteSessionRoom(ctx context.Context, id model.SessionID) error
}
