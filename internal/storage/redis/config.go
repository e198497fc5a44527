package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// PoolSize is the maximum number of connections
	PoolSize int

	// MinIdleConns is the minimum number of idle connections
	MinIdleConns int

	// SessionTTL bounds how long an idle session record lives. Zero
	// means no expiry; the room registry's cleanup still applies.
	SessionTTL time.Duration

	// RoomTTL bounds how long a room record lives without being
	// rewritten. Zero means no expiry.
	RoomTTL time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		SessionTTL:   24 * time.Hour,
		RoomTTL:      24 * time.Hour,
	}
}
