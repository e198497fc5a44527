// Package room implements the room registry: the sole owner of the
// room-code -> room map and the session -> room index. Every mutation
// of a room goes through the registry's exclusive-access handle, which
// serializes operations per room while leaving distinct rooms free to
// proceed in parallel.
package room

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sanghyxuk/number-baseball/internal/broadcast"
	"github.com/sanghyxuk/number-baseball/internal/dependencies/clock"
	"github.com/sanghyxuk/number-baseball/internal/dependencies/random"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/protocol"
	"github.com/sanghyxuk/number-baseball/internal/storage"
)

// RoomCodeAlphabet is the characters used in room codes.
const RoomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultInactivityTimeout is how long a room may sit idle before the
// cleanup sweep evicts it.
const DefaultInactivityTimeout = 5 * time.Minute

// Registry manages game rooms.
type Registry struct {
	storage storage.Storage
	gateway broadcast.Gateway
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	inactivityTimeout time.Duration

	// locks holds one mutex per live room. The registry mutex guards
	// only the map itself and is never held across a room operation.
	mu    sync.Mutex
	locks map[model.RoomCode]*sync.Mutex
}

// NewRegistry creates a room registry.
func NewRegistry(
	store storage.Storage,
	gateway broadcast.Gateway,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		storage:           store,
		gateway:           gateway,
		clock:             clk,
		random:            rnd,
		logger:            logger.With(slog.String("component", "room-registry")),
		inactivityTimeout: DefaultInactivityTimeout,
		locks:             make(map[model.RoomCode]*sync.Mutex),
	}
}

// SetInactivityTimeout overrides the eviction threshold (for tests).
func (r *Registry) SetInactivityTimeout(d time.Duration) {
	r.inactivityTimeout = d
}

// NormalizeCode uppercases a client-supplied room code.
func NormalizeCode(code string) model.RoomCode {
	return model.RoomCode(strings.ToUpper(strings.TrimSpace(code)))
}

// roomLock returns the mutex for a room code, creating it on first use.
func (r *Registry) roomLock(code model.RoomCode) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[code]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[code] = lock
	}
	return lock
}

// dropLock discards a removed room's mutex.
func (r *Registry) dropLock(code model.RoomCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, code)
}

// WithRoom runs fn with exclusive access to the room: the room is
// loaded, mutated, and stored back under the room's lock. This is the
// only sanctioned way to mutate a room; callers must not retain the
// pointer past fn's return.
func (r *Registry) WithRoom(ctx context.Context, code model.RoomCode, fn func(*model.GameRoom) error) error {
	lock := r.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if err := fn(room); err != nil {
		return err
	}
	return r.storage.SaveRoom(ctx, room)
}

// CreateRoom allocates a fresh room with the creator as its only
// player. Any room the creator already occupies is removed first:
// one active room per session.
func (r *Registry) CreateRoom(ctx context.Context, creator model.SessionID, settings model.GameSettings) (*model.GameRoom, error) {
	if !settings.Valid() {
		return nil, model.ErrInvalidSettings
	}

	if err := r.evictCurrentRoom(ctx, creator); err != nil {
		return nil, err
	}

	code, err := r.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	room := model.NewGameRoom(code, creator, settings, r.clock.Now())
	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	if err := r.storage.SetSessionRoom(ctx, creator, code); err != nil {
		return nil, err
	}

	r.logger.Info("room created",
		slog.String("room", string(code)),
		slog.String("creator", string(creator)),
		slog.Int("digits", settings.Digits))

	return room, nil
}

// evictCurrentRoom removes the session from whatever room it occupies
// before placing it in a new one. No current room is fine, and so is a
// stale index entry whose room is already gone: LeaveRoom repairs the
// index and reports the missing room.
func (r *Registry) evictCurrentRoom(ctx context.Context, sessionID model.SessionID) error {
	err := r.LeaveRoom(ctx, sessionID)
	if err != nil && !errors.Is(err, model.ErrNoActiveRoom) && !errors.Is(err, model.ErrRoomNotFound) {
		return err
	}
	return nil
}

// JoinRoom adds the session as the room's second player and broadcasts
// the state change. The joiner is first removed from any room they
// already occupy.
func (r *Registry) JoinRoom(ctx context.Context, code model.RoomCode, joiner model.SessionID) (*model.GameRoom, error) {
	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if !room.Status.CanJoin() {
		return nil, model.ErrRoomNotJoinable
	}

	if err := r.evictCurrentRoom(ctx, joiner); err != nil {
		return nil, err
	}

	var joined *model.GameRoom
	err = r.WithRoom(ctx, code, func(room *model.GameRoom) error {
		if !room.Join(joiner, r.clock.Now()) {
			return model.ErrRoomNotJoinable
		}
		snapshot := *room
		joined = &snapshot
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.storage.SetSessionRoom(ctx, joiner, code); err != nil {
		return nil, err
	}

	r.logger.Info("player joined room",
		slog.String("room", string(code)),
		slog.String("joiner", string(joiner)))

	r.BroadcastStateChange(ctx, code)
	return joined, nil
}

// LeaveRoom removes the session from its current room. The creator
// leaving destroys the room for both players; the joiner leaving
// regresses the room to waiting-for-joiner.
func (r *Registry) LeaveRoom(ctx context.Context, sessionID model.SessionID) error {
	code, err := r.storage.GetSessionRoom(ctx, sessionID)
	if err != nil {
		return err
	}

	lock := r.roomLock(code)
	lock.Lock()

	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		lock.Unlock()
		// Stale index entry; clear it
		_ = r.storage.DeleteSessionRoom(ctx, sessionID)
		return err
	}

	switch sessionID {
	case room.CreatorSessionID:
		err = r.removeRoomLocked(ctx, room)
		lock.Unlock()
		if err != nil {
			return err
		}
		r.dropLock(code)
		r.logger.Info("room destroyed, creator left", slog.String("room", string(code)))
		return nil

	case room.JoinerSessionID:
		room.ClearJoiner(r.clock.Now())
		err = r.storage.SaveRoom(ctx, room)
		lock.Unlock()
		if err != nil {
			return err
		}
		if err := r.storage.DeleteSessionRoom(ctx, sessionID); err != nil {
			return err
		}
		r.logger.Info("joiner left room", slog.String("room", string(code)))
		r.BroadcastStateChange(ctx, code)
		return nil
	}

	lock.Unlock()
	// Index pointed at a room the session is no longer part of
	return r.storage.DeleteSessionRoom(ctx, sessionID)
}

// FindByCode retrieves a room by its code.
func (r *Registry) FindByCode(ctx context.Context, code model.RoomCode) (*model.GameRoom, error) {
	return r.storage.GetRoom(ctx, code)
}

// FindBySession retrieves the room the session currently occupies.
func (r *Registry) FindBySession(ctx context.Context, sessionID model.SessionID) (*model.GameRoom, error) {
	code, err := r.storage.GetSessionRoom(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return r.storage.GetRoom(ctx, code)
}

// RoomSessions returns the session ids party to a room, for topic
// fan-out by the transport.
func (r *Registry) RoomSessions(ctx context.Context, code model.RoomCode) []model.SessionID {
	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return nil
	}
	sessions := []model.SessionID{room.CreatorSessionID}
	if room.JoinerSessionID != "" {
		sessions = append(sessions, room.JoinerSessionID)
	}
	return sessions
}

// RemoveRoom destroys a room and both session mappings.
func (r *Registry) RemoveRoom(ctx context.Context, code model.RoomCode) error {
	lock := r.roomLock(code)
	lock.Lock()

	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		lock.Unlock()
		return err
	}
	err = r.removeRoomLocked(ctx, room)
	lock.Unlock()
	if err != nil {
		return err
	}
	r.dropLock(code)
	return nil
}

// removeRoomLocked deletes a room and its session mappings. The
// caller holds the room's lock.
func (r *Registry) removeRoomLocked(ctx context.Context, room *model.GameRoom) error {
	if err := r.storage.DeleteRoom(ctx, room.Code); err != nil {
		return err
	}
	if room.CreatorSessionID != "" {
		if err := r.storage.DeleteSessionRoom(ctx, room.CreatorSessionID); err != nil {
			return err
		}
	}
	if room.JoinerSessionID != "" {
		if err := r.storage.DeleteSessionRoom(ctx, room.JoinerSessionID); err != nil {
			return err
		}
	}
	return nil
}

// CleanupInactiveRooms evicts every room idle past the inactivity
// threshold. Liveness is re-checked under the room's lock so the sweep
// never races an in-flight gameplay mutation into destroying a live
// room. Returns the number of rooms removed.
func (r *Registry) CleanupInactiveRooms(ctx context.Context) int {
	rooms, err := r.storage.ListRooms(ctx)
	if err != nil {
		r.logger.Error("cleanup scan failed", slog.String("error", err.Error()))
		return 0
	}

	cutoff := r.clock.Now().Add(-r.inactivityTimeout)
	removed := 0

	for _, candidate := range rooms {
		if !candidate.LastActivity.Before(cutoff) {
			continue
		}

		lock := r.roomLock(candidate.Code)
		lock.Lock()
		room, err := r.storage.GetRoom(ctx, candidate.Code)
		if err != nil || !room.LastActivity.Before(cutoff) {
			// Already gone, or active again since the scan
			lock.Unlock()
			continue
		}
		err = r.removeRoomLocked(ctx, room)
		lock.Unlock()
		if err != nil {
			r.logger.Error("cleanup eviction failed",
				slog.String("room", string(candidate.Code)),
				slog.String("error", err.Error()))
			continue
		}
		r.dropLock(candidate.Code)
		removed++
	}

	if removed > 0 {
		r.logger.Info("cleaned up inactive rooms", slog.Int("removed", removed))
	}
	return removed
}

// ActiveRoomCount returns the number of live rooms, for reporting.
func (r *Registry) ActiveRoomCount(ctx context.Context) (int, error) {
	return r.storage.RoomCount(ctx)
}

// BroadcastStateChange publishes the room's current state to its topic.
func (r *Registry) BroadcastStateChange(ctx context.Context, code model.RoomCode) {
	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return
	}
	r.gateway.PublishToRoom(ctx, code, protocol.TypeStateChange, protocol.StateChangeFromRoom(room))
}

// generateUniqueCode draws 6-character codes until one does not collide
// with a currently live room.
func (r *Registry) generateUniqueCode(ctx context.Context) (model.RoomCode, error) {
	for {
		code := model.RoomCode(r.random.String(model.RoomCodeLength, RoomCodeAlphabet))
		exists, err := r.storage.RoomExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}
