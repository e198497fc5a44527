package model

import "time"

// SessionID is the opaque identifier issued to a player for the
// lifetime of their participation.
type SessionID string

// PlayerSession is the lightweight player record owned by the session
// directory. Rooms reference sessions by id only, never by pointer.
type PlayerSession struct {
	ID        SessionID
	Nickname  string // May be empty; callers fall back to a default
	CreatedAt time.Time
}
