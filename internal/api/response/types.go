package response

import (
	"github.com/sanghyxuk/number-baseball/internal/model"
)

// Session represents a player session in API responses
type Session struct {
	SessionID string `json:"session_id"`
	Nickname  string `json:"nickname"`
	CreatedAt int64  `json:"created_at"`
}

// SessionFromModel converts a model.PlayerSession to a response Session
func SessionFromModel(s *model.PlayerSession) Session {
	return Session{
		SessionID: string(s.ID),
		Nickname:  s.Nickname,
		CreatedAt: s.CreatedAt.UnixMilli(),
	}
}

// Settings represents room settings in API responses
type Settings struct {
	Digits         int  `json:"digits"`
	AllowZero      bool `json:"allow_zero"`
	AllowDuplicate bool `json:"allow_duplicate"`
}

// SettingsFromModel converts model.GameSettings
func SettingsFromModel(s model.GameSettings) Settings {
	return Settings{
		Digits:         s.Digits,
		AllowZero:      s.AllowZero,
		AllowDuplicate: s.AllowDuplicate,
	}
}

// Turn represents one judged guess in API responses
type Turn struct {
	TurnNumber int    `json:"turn_number"`
	Guesser    string `json:"guesser"`
	Guess      string `json:"guess"`
	Result     string `json:"result"`
	Timestamp  int64  `json:"timestamp"`
}

// TurnFromModel converts model.GameTurn
func TurnFromModel(t model.GameTurn) Turn {
	return Turn{
		TurnNumber: t.TurnNumber,
		Guesser:    string(t.GuesserID),
		Guess:      t.Guess,
		Result:     t.Result,
		Timestamp:  t.Timestamp.UnixMilli(),
	}
}

// Room represents a game room in API responses. Secrets are never
// included.
type Room struct {
	Code         string   `json:"code"`
	Status       string   `json:"status"`
	Settings     Settings `json:"settings"`
	Creator      string   `json:"creator"`
	Joiner       string   `json:"joiner,omitempty"`
	CreatorReady bool     `json:"creator_ready"`
	JoinerReady  bool     `json:"joiner_ready"`
	CurrentTurn  string   `json:"current_turn,omitempty"`
	History      []Turn   `json:"history"`
	AbandonedBy  string   `json:"abandoned_by,omitempty"`
	CreatedAt    int64    `json:"created_at"`
}

// RoomFromModel converts model.GameRoom
func RoomFromModel(r *model.GameRoom) Room {
	history := make([]Turn, len(r.History))
	for i, t := range r.History {
		history[i] = TurnFromModel(t)
	}
	return Room{
		Code:         string(r.Code),
		Status:       string(r.Status),
		Settings:     SettingsFromModel(r.Settings),
		Creator:      string(r.CreatorSessionID),
		Joiner:       string(r.JoinerSessionID),
		CreatorReady: r.CreatorReady,
		JoinerReady:  r.JoinerReady,
		CurrentTurn:  string(r.CurrentTurn),
		History:      history,
		AbandonedBy:  string(r.AbandonedBy),
		CreatedAt:    r.CreatedAt.UnixMilli(),
	}
}

// CreateRoomResponse is the response for room creation
type CreateRoomResponse struct {
	Session Session `json:"session"`
	Room    Room    `json:"room"`
}

// Health is the health check response
type Health struct {
	Status         string `json:"status"`
	ActiveRooms    int    `json:"active_rooms"`
	ActiveSessions int    `json:"active_sessions"`
}
