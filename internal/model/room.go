package model

import "time"

// RoomCode is a human-readable identifier for joining rooms.
type RoomCode string

// RoomCodeLength is the length of generated room codes.
const RoomCodeLength = 6

// GameRoom is the central mutable aggregate for one duel. All mutation
// goes through the room registry's exclusive-access handle; the methods
// here assume the caller already holds the room's lock.
type GameRoom struct {
	Code             RoomCode
	CreatorSessionID SessionID
	JoinerSessionID  SessionID // Empty until someone joins
	Status           GameStatus
	Settings         GameSettings

	CreatorAnswer string
	JoinerAnswer  string
	CurrentTurn   SessionID // Empty once finished

	History []GameTurn

	CreatorReady bool
	JoinerReady  bool

	// AbandonedBy records which session forced the terminal state,
	// whether by explicit abandon or grace-timeout forfeit.
	AbandonedBy SessionID

	CreatedAt    time.Time
	LastActivity time.Time
}

// NewGameRoom creates a room in the waiting-for-joiner state.
func NewGameRoom(code RoomCode, creator SessionID, settings GameSettings, now time.Time) *GameRoom {
	return &GameRoom{
		Code:             code,
		CreatorSessionID: creator,
		Status:           StatusWaitingForJoiner,
		Settings:         settings,
		History:          []GameTurn{},
		CreatedAt:        now,
		LastActivity:     now,
	}
}

// Join assigns the second player and advances the state machine.
// Returns false without mutating if the room is not joinable.
func (r *GameRoom) Join(joiner SessionID, now time.Time) bool {
	if !r.Status.CanJoin() || r.JoinerSessionID != "" {
		return false
	}
	r.JoinerSessionID = joiner
	r.transition(StatusWaitingForReady)
	r.touch(now)
	return true
}

// SetReady records the ready flag for whichever role the session
// matches, advancing to answer-setting once both are ready.
func (r *GameRoom) SetReady(sessionID SessionID, ready bool, now time.Time) {
	switch sessionID {
	case r.CreatorSessionID:
		r.CreatorReady = ready
	case r.JoinerSessionID:
		if r.JoinerSessionID != "" {
			r.JoinerReady = ready
		}
	}
	if r.CreatorReady && r.JoinerReady && r.Status == StatusWaitingForReady {
		r.transition(StatusSettingAnswers)
	}
	r.touch(now)
}

// SetAnswer records the session's committed secret. Once both secrets
// are present the game starts, with the creator moving first.
func (r *GameRoom) SetAnswer(sessionID SessionID, answer string, now time.Time) {
	switch sessionID {
	case r.CreatorSessionID:
		r.CreatorAnswer = answer
	case r.JoinerSessionID:
		if r.JoinerSessionID != "" {
			r.JoinerAnswer = answer
		}
	}
	if r.CreatorAnswer != "" && r.JoinerAnswer != "" && r.Status == StatusSettingAnswers {
		r.transition(StatusInProgress)
		r.CurrentTurn = r.CreatorSessionID
	}
	r.touch(now)
}

// AddTurn appends a judged guess to the history. A winning result ends
// the game; otherwise the turn passes to the other player.
func (r *GameRoom) AddTurn(guesser SessionID, guess, result string, now time.Time) GameTurn {
	turn := GameTurn{
		TurnNumber: len(r.History) + 1,
		GuesserID:  guesser,
		Guess:      guess,
		Result:     result,
		Timestamp:  now,
	}
	r.History = append(r.History, turn)

	if turn.IsWinning(r.Settings.Digits) {
		r.transition(StatusFinished)
		r.CurrentTurn = ""
	} else {
		r.CurrentTurn = r.Opponent(r.CurrentTurn)
	}
	r.touch(now)
	return turn
}

// Abandon forces the terminal abandoned state. Unlike every other
// transition this is not gated on the current status: it is the safety
// valve and must always succeed.
func (r *GameRoom) Abandon(sessionID SessionID, now time.Time) {
	r.Status = StatusAbandoned
	r.CurrentTurn = ""
	r.AbandonedBy = sessionID
	r.touch(now)
}

// ClearJoiner regresses the room to waiting-for-joiner after the joiner
// leaves, resetting both ready flags.
func (r *GameRoom) ClearJoiner(now time.Time) {
	r.JoinerSessionID = ""
	r.JoinerAnswer = ""
	r.CreatorReady = false
	r.JoinerReady = false
	r.transition(StatusWaitingForJoiner)
	r.touch(now)
}

// IsPlayerInRoom reports whether the session is a party to this room.
func (r *GameRoom) IsPlayerInRoom(sessionID SessionID) bool {
	return sessionID == r.CreatorSessionID ||
		(r.JoinerSessionID != "" && sessionID == r.JoinerSessionID)
}

// IsPlayerTurn reports whether it is the session's move.
func (r *GameRoom) IsPlayerTurn(sessionID SessionID) bool {
	return r.CurrentTurn != "" && sessionID == r.CurrentTurn
}

// Opponent returns the other party's session id, or empty if the
// session is not in the room.
func (r *GameRoom) Opponent(sessionID SessionID) SessionID {
	switch sessionID {
	case r.CreatorSessionID:
		return r.JoinerSessionID
	case r.JoinerSessionID:
		return r.CreatorSessionID
	}
	return ""
}

// OpponentAnswer returns the secret the session is guessing against.
func (r *GameRoom) OpponentAnswer(sessionID SessionID) string {
	switch sessionID {
	case r.CreatorSessionID:
		return r.JoinerAnswer
	case r.JoinerSessionID:
		return r.CreatorAnswer
	}
	return ""
}

// AllAnswersSet reports whether both players have committed secrets.
func (r *GameRoom) AllAnswersSet() bool {
	return r.CreatorAnswer != "" && r.JoinerAnswer != ""
}

// HistorySnapshot returns a copy of the turn history. Callers must not
// observe later mutations through a previously returned slice.
func (r *GameRoom) HistorySnapshot() []GameTurn {
	history := make([]GameTurn, len(r.History))
	copy(history, r.History)
	return history
}

// transition applies a state change if the transition table allows it.
func (r *GameRoom) transition(target GameStatus) {
	if r.Status.CanTransitionTo(target) {
		r.Status = target
	}
}

func (r *GameRoom) touch(now time.Time) {
	r.LastActivity = now
}
