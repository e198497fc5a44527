package model

import (
	"fmt"
	"time"
)

// GameTurn is one guess and its judgement, immutable once appended to a
// room's history.
type GameTurn struct {
	TurnNumber int // 1-based, contiguous
	GuesserID  SessionID
	Guess      string
	Result     string // e.g. "1S 2B", "3S", "OUT"
	Timestamp  time.Time
}

// IsWinning reports whether this turn's result is the all-strikes
// result for the given digit count.
func (t GameTurn) IsWinning(digits int) bool {
	return t.Result == fmt.Sprintf("%dS", digits)
}
