package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case RoomResult:
		o.printRoomResult(v)
	case Room:
		o.printRoom(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Session response type (matches API)
type Session struct {
	SessionID string `json:"session_id"`
	Nickname  string `json:"nickname"`
	CreatedAt int64  `json:"created_at"`
}

// Settings response type
type Settings struct {
	Digits         int  `json:"digits"`
	AllowZero      bool `json:"allow_zero"`
	AllowDuplicate bool `json:"allow_duplicate"`
}

// Turn response type
type Turn struct {
	TurnNumber int    `json:"turn_number"`
	Guesser    string `json:"guesser"`
	Guess      string `json:"guess"`
	Result     string `json:"result"`
	Timestamp  int64  `json:"timestamp"`
}

// Room response type
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

// RoomResult combines session and room after create/join
type RoomResult struct {
	Session Session `json:"session"`
	Room    Room    `json:"room"`
}

// HealthResult response type
type HealthResult struct {
	Status         string `json:"status"`
	ActiveRooms    int    `json:"active_rooms"`
	ActiveSessions int    `json:"active_sessions"`
}

func (o *Output) printRoomResult(r RoomResult) {
	fmt.Printf("Session: %s (%s)\n", r.Session.SessionID, r.Session.Nickname)
	o.printRoom(r.Room)
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Status: %s\n", r.Status)
	dupStr := "no"
	if r.Settings.AllowDuplicate {
		dupStr = "yes"
	}
	zeroStr := "no"
	if r.Settings.AllowZero {
		zeroStr = "yes"
	}
	fmt.Printf("Settings: %d digits, zero: %s, duplicates: %s\n", r.Settings.Digits, zeroStr, dupStr)
	fmt.Printf("Creator: %s (ready: %v)\n", r.Creator, r.CreatorReady)
	if r.Joiner != "" {
		fmt.Printf("Joiner: %s (ready: %v)\n", r.Joiner, r.JoinerReady)
	}
	if r.CurrentTurn != "" {
		fmt.Printf("Current turn: %s\n", r.CurrentTurn)
	}
	if r.AbandonedBy != "" {
		fmt.Printf("Abandoned by: %s\n", r.AbandonedBy)
	}
	if len(r.History) > 0 {
		fmt.Printf("History (%d turns):\n", len(r.History))
		for _, t := range r.History {
			ts := time.UnixMilli(t.Timestamp).Format("15:04:05")
			fmt.Printf("  %2d. [%s] %s guessed %s -> %s\n", t.TurnNumber, ts, t.Guesser, t.Guess, t.Result)
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Active rooms: %d\n", h.ActiveRooms)
	fmt.Printf("Active sessions: %d\n", h.ActiveSessions)
}
