package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.PlayerSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL)
	pipe.SAdd(ctx, sessionSetKey(), string(session.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.PlayerSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.PlayerSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, sessionSetKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) SessionCount(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, sessionSetKey()).Result()
	return int(n), err
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.GameRoom) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + membership index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, roomKey(room.Code), data, s.cfg.RoomTTL)
	pipe.SAdd(ctx, roomSetKey(), string(room.Code))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.GameRoom, error) {
	data, err := s.client.Get(ctx, roomKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.GameRoom
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, roomKey(code))
	pipe.SRem(ctx, roomSetKey(), string(code))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	n, err := s.client.Exists(ctx, roomKey(code)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.GameRoom, error) {
	codes, err := s.client.SMembers(ctx, roomSetKey()).Result()
	if err != nil {
		return nil, err
	}

	var rooms []*model.GameRoom
	for _, code := range codes {
		room, err := s.GetRoom(ctx, model.RoomCode(code))
		if errors.Is(err, model.ErrRoomNotFound) {
			// Value expired while still indexed; repair the index
			_ = s.client.SRem(ctx, roomSetKey(), code).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (s *Storage) RoomCount(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, roomSetKey()).Result()
	return int(n), err
}

// Session -> room index operations

func (s *Storage) SetSessionRoom(ctx context.Context, id model.SessionID, code model.RoomCode) error {
	return s.client.Set(ctx, sessionRoomKey(id), string(code), s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSessionRoom(ctx context.Context, id model.SessionID) (model.RoomCode, error) {
	code, err := s.client.Get(ctx, sessionRoomKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrNoActiveRoom
		}
		return "", err
	}
	return model.RoomCode(code), nil
}

func (s *Storage) DeleteSessionRoom(ctx context.Context, id model.SessionID) error {
	return s.client.Del(ctx, sessionRoomKey(id)).Err()
}
