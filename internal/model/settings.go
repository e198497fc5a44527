package model

// Digit count limits for a secret number.
const (
	MinDigits = 3
	MaxDigits = 5
)

// GameSettings holds the rules agreed when a room is created.
// Immutable for the lifetime of the room; constrains both secret
// generation and guess validation.
type GameSettings struct {
	Digits         int  `json:"digits"`
	AllowZero      bool `json:"allowZero"`
	AllowDuplicate bool `json:"allowDuplicate"`
}

// DefaultSettings returns the standard three-digit, no-zero,
// no-duplicate rule set.
func DefaultSettings() GameSettings {
	return GameSettings{
		Digits:         3,
		AllowZero:      false,
		AllowDuplicate: false,
	}
}

// Valid reports whether the settings describe a playable game.
func (s GameSettings) Valid() bool {
	return s.Digits >= MinDigits && s.Digits <= MaxDigits
}
