package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid or expired session")

	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrNoActiveRoom    = errors.New("session has no active room")
	ErrNotInRoom       = errors.New("session is not a party to this room")
	ErrRoomNotJoinable = errors.New("room cannot be joined in its current state")

	// Gameplay errors
	ErrInvalidState  = errors.New("action not valid for the current game state")
	ErrNotYourTurn   = errors.New("not this player's turn")
	ErrInvalidAnswer = errors.New("answer does not satisfy the room settings")
	ErrInvalidGuess  = errors.New("guess does not satisfy the room settings")

	// Settings errors
	ErrInvalidSettings = errors.New("invalid game settings")

	// Request errors
	ErrInvalidRequest = errors.New("malformed or unrecognized request")
)
