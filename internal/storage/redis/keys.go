package redis

import (
	"fmt"

	"github.com/sanghyxuk/number-baseball/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "nbball"

// sessionKey returns the Redis key for a PlayerSession
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// roomKey returns the Redis key for a GameRoom
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// sessionRoomKey returns the Redis key for the session -> room index
func sessionRoomKey(id model.SessionID) string {
	return fmt.Sprintf("%s:idx:session_room:%s", keyPrefix, id)
}

// roomSetKey returns the Redis key for the SET of live room codes
func roomSetKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// sessionSetKey returns the Redis key for the SET of live session ids
func sessionSetKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}
