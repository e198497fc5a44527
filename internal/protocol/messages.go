// Package protocol defines the wire format shared by the websocket
// transport and the broadcast gateway: a typed envelope with a
// type-specific payload and an epoch-millisecond timestamp.
package protocol

import (
	"time"

	"github.com/sanghyxuk/number-baseball/internal/model"
)

// MessageType identifies the kind of outbound message.
type MessageType string

const (
	TypeStateChange        MessageType = "STATE_CHANGE"
	TypePlayerReady        MessageType = "PLAYER_READY"
	TypeAnswerSet          MessageType = "ANSWER_SET"
	TypeNewGuess           MessageType = "NEW_GUESS"
	TypeGameFinished       MessageType = "GAME_FINISHED"
	TypePlayerConnected    MessageType = "PLAYER_CONNECTED"
	TypePlayerDisconnected MessageType = "PLAYER_DISCONNECTED"
	TypeAnswerSuggested    MessageType = "ANSWER_SUGGESTED"
	TypeError              MessageType = "ERROR"
)

// Reasons a game can finish.
const (
	ReasonWin     = "WIN"
	ReasonAbandon = "ABANDON"
	ReasonTimeout = "TIMEOUT"
)

// Connection status values for player connection messages.
const (
	ConnStatusConnected    = "CONNECTED"
	ConnStatusDisconnected = "DISCONNECTED"
	ConnStatusReconnected  = "RECONNECTED"
)

// Envelope is the outer structure of every outbound message.
type Envelope struct {
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload"`
	Timestamp int64       `json:"timestamp"` // epoch millis
}

// NewEnvelope wraps a payload with its type and the current time.
func NewEnvelope(msgType MessageType, payload any, now time.Time) Envelope {
	return Envelope{
		Type:      msgType,
		Payload:   payload,
		Timestamp: now.UnixMilli(),
	}
}

// StateChangePayload announces a room's current phase.
type StateChangePayload struct {
	Status       model.GameStatus `json:"status"`
	CurrentTurn  string           `json:"currentTurn"`
	RoomCode     string           `json:"roomCode"`
	CreatorReady bool             `json:"creatorReady"`
	JoinerReady  bool             `json:"joinerReady"`
}

// StateChangeFromRoom builds a state change payload from a room.
func StateChangeFromRoom(room *model.GameRoom) StateChangePayload {
	return StateChangePayload{
		Status:       room.Status,
		CurrentTurn:  string(room.CurrentTurn),
		RoomCode:     string(room.Code),
		CreatorReady: room.CreatorReady,
		JoinerReady:  room.JoinerReady,
	}
}

// PlayerReadyPayload announces a ready-flag change.
type PlayerReadyPayload struct {
	SessionID string `json:"sessionId"`
	Ready     bool   `json:"ready"`
	Nickname  string `json:"nickname"`
}

// AnswerSetPayload announces that a player committed a secret.
type AnswerSetPayload struct {
	SessionID     string `json:"sessionId"`
	AnswerSet     bool   `json:"answerSet"`
	AllAnswersSet bool   `json:"allAnswersSet"`
}

// TurnRecord is the wire form of one judged guess.
type TurnRecord struct {
	TurnNumber int    `json:"turnNumber"`
	Guesser    string `json:"guesser"`
	Guess      string `json:"guess"`
	Result     string `json:"result"`
	Timestamp  int64  `json:"timestamp"` // epoch millis
}

// TurnRecordFromModel converts a model turn to its wire form.
func TurnRecordFromModel(t model.GameTurn) TurnRecord {
	return TurnRecord{
		TurnNumber: t.TurnNumber,
		Guesser:    string(t.GuesserID),
		Guess:      t.Guess,
		Result:     t.Result,
		Timestamp:  t.Timestamp.UnixMilli(),
	}
}

// NewGuessPayload announces a judged guess and whose move is next.
type NewGuessPayload struct {
	Guesser    string `json:"guesser"`
	Guess      string `json:"guess"`
	Result     string `json:"result"`
	TurnNumber int    `json:"turnNumber"`
	NextTurn   string `json:"nextTurn"`
}

// NewGuessFromTurn builds a guess payload from a turn and the room's
// next mover.
func NewGuessFromTurn(t model.GameTurn, nextTurn model.SessionID) NewGuessPayload {
	return NewGuessPayload{
		Guesser:    string(t.GuesserID),
		Guess:      t.Guess,
		Result:     t.Result,
		TurnNumber: t.TurnNumber,
		NextTurn:   string(nextTurn),
	}
}

// GameFinishedPayload announces a terminal state with the full history.
type GameFinishedPayload struct {
	Winner      string       `json:"winner"`
	Reason      string       `json:"reason"` // WIN, ABANDON, TIMEOUT
	GameHistory []TurnRecord `json:"gameHistory"`
	TotalTurns  int          `json:"totalTurns"`
}

// GameFinished builds a finish payload from a history snapshot.
func GameFinished(winner model.SessionID, reason string, history []model.GameTurn) GameFinishedPayload {
	records := make([]TurnRecord, len(history))
	for i, t := range history {
		records[i] = TurnRecordFromModel(t)
	}
	return GameFinishedPayload{
		Winner:      string(winner),
		Reason:      reason,
		GameHistory: records,
		TotalTurns:  len(records),
	}
}

// PlayerConnectionPayload announces a connect, disconnect or reconnect.
type PlayerConnectionPayload struct {
	SessionID        string `json:"sessionId"`
	Nickname         string `json:"nickname"`
	Connected        bool   `json:"connected"`
	ConnectionStatus string `json:"connectionStatus"`
}

// AnswerSuggestedPayload carries a generated candidate secret,
// delivered only on the requesting session's private channel.
type AnswerSuggestedPayload struct {
	Answer string `json:"answer"`
}

// ErrorPayload carries a rejected action back to the acting session.
type ErrorPayload struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
}

// Error codes surfaced to clients.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidSession = "INVALID_SESSION"
	CodeNoRoom         = "NO_ROOM"
	CodeRoomNotFound   = "ROOM_NOT_FOUND"
	CodeNotInRoom      = "NOT_IN_ROOM"
	CodeInvalidState   = "INVALID_STATE"
	CodeInvalidAnswer  = "INVALID_ANSWER"
	CodeInvalidGuess   = "INVALID_GUESS"
	CodeNotYourTurn    = "NOT_YOUR_TURN"
	CodeServerError    = "SERVER_ERROR"
)
