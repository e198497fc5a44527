package memory

import (
	"context"
	"sync"

	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	sessions    map[model.SessionID]*model.PlayerSession
	rooms       map[model.RoomCode]*model.GameRoom
	sessionRoom map[model.SessionID]model.RoomCode
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions:    make(map[model.SessionID]*model.PlayerSession),
		rooms:       make(map[model.RoomCode]*model.GameRoom),
		sessionRoom: make(map[model.SessionID]model.RoomCode),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// cloneRoom gives callers value semantics, matching the Redis backend's
// serialization round-trip. Without this a caller's mutation would leak
// into the store before SaveRoom.
func cloneRoom(room *model.GameRoom) *model.GameRoom {
	clone := *room
	clone.History = make([]model.GameTurn, len(room.History))
	copy(clone.History, room.History)
	return &clone
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.PlayerSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.PlayerSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Storage) SessionCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.GameRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = cloneRoom(room)
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.GameRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.GameRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*model.GameRoom, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, cloneRoom(room))
	}
	return rooms, nil
}

func (s *Storage) RoomCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms), nil
}

// Session -> room index operations

func (s *Storage) SetSessionRoom(ctx context.Context, id model.SessionID, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionRoom[id] = code
	return nil
}

func (s *Storage) GetSessionRoom(ctx context.Context, id model.SessionID) (model.RoomCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.sessionRoom[id]
	if !ok {
		return "", model.ErrNoActiveRoom
	}
	return code, nil
}

func (s *Storage) DeleteSessionRoom(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessionRoom, id)
	return nil
}
