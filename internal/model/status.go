package model

// GameStatus represents the current phase of a room's lifecycle.
// Values match the wire protocol, which clients key off of directly.
type GameStatus string

const (
	StatusWaitingForJoiner GameStatus = "WAITING_FOR_JOINER" // Room created, no second player yet
	StatusWaitingForReady  GameStatus = "WAITING_FOR_READY"  // Both players present, waiting on ready flags
	StatusSettingAnswers   GameStatus = "SETTING_ANSWERS"    // Players committing their secrets
	StatusInProgress       GameStatus = "IN_PROGRESS"        // Alternating guesses
	StatusFinished         GameStatus = "FINISHED"           // Someone guessed the secret
	StatusAbandoned        GameStatus = "ABANDONED"          // Forfeit, explicit or by timeout
)

// validTransitions is the single source of truth for the room state machine.
// Abandonment is allowed from any non-terminal state; everything else moves
// strictly forward, except the joiner-left regression back to waiting.
var validTransitions = map[GameStatus][]GameStatus{
	StatusWaitingForJoiner: {StatusWaitingForReady, StatusAbandoned},
	StatusWaitingForReady:  {StatusSettingAnswers, StatusWaitingForJoiner, StatusAbandoned},
	StatusSettingAnswers:   {StatusInProgress, StatusAbandoned},
	StatusInProgress:       {StatusFinished, StatusAbandoned},
	StatusFinished:         {},
	StatusAbandoned:        {},
}

// CanTransitionTo reports whether moving from s to target is a legal
// state machine transition.
func (s GameStatus) CanTransitionTo(target GameStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsActive reports whether the room is in a phase where a disconnect
// should be held open for reconnection rather than ending the game.
func (s GameStatus) IsActive() bool {
	return s == StatusSettingAnswers || s == StatusInProgress
}

// IsFinished reports whether the room has reached a terminal state.
func (s GameStatus) IsFinished() bool {
	return s == StatusFinished || s == StatusAbandoned
}

// CanJoin reports whether a second player may join in this state.
func (s GameStatus) CanJoin() bool {
	return s == StatusWaitingForJoiner
}
