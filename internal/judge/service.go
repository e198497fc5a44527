// Package judge implements the core game rules: secret generation,
// guess scoring, and input validation. It holds no game state.
package judge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sanghyxuk/number-baseball/internal/dependencies/random"
	"github.com/sanghyxuk/number-baseball/internal/model"
)

var (
	// ErrGeneration means the requested digit count cannot be drawn
	// from the available distinct digits.
	ErrGeneration = errors.New("cannot generate a secret for these settings")
	// ErrLengthMismatch means a guess and secret differ in length.
	ErrLengthMismatch = errors.New("guess and secret lengths differ")
)

// ResultOut is the judgement for a guess with no matching digits.
const ResultOut = "OUT"

// Service judges guesses and generates secrets.
type Service struct {
	random random.Random
}

// New creates a judge service.
func New(rnd random.Random) *Service {
	return &Service{random: rnd}
}

// GenerateAnswer produces a secret satisfying the settings. The first
// digit is never zero, regardless of AllowZero.
func (s *Service) GenerateAnswer(settings model.GameSettings) (string, error) {
	if settings.AllowDuplicate {
		return s.generateWithDuplicates(settings), nil
	}
	return s.generateDistinct(settings)
}

func (s *Service) generateWithDuplicates(settings model.GameSettings) string {
	var b strings.Builder
	for i := 0; i < settings.Digits; i++ {
		if i == 0 {
			// Leading zero is always forbidden
			b.WriteByte(byte('1' + s.random.Intn(9)))
			continue
		}
		if settings.AllowZero {
			b.WriteByte(byte('0' + s.random.Intn(10)))
		} else {
			b.WriteByte(byte('1' + s.random.Intn(9)))
		}
	}
	return b.String()
}

func (s *Service) generateDistinct(settings model.GameSettings) (string, error) {
	pool := []byte("123456789")
	if settings.AllowZero {
		pool = append(pool, '0')
	}
	if settings.Digits > len(pool) {
		return "", ErrGeneration
	}

	var b strings.Builder
	for i := 0; i < settings.Digits; i++ {
		// The leading position draws from the pool minus zero;
		// zero stays available for later positions.
		limit := len(pool)
		if i == 0 {
			limit = 9 // pool always starts with 1..9
		}
		idx := s.random.Intn(limit)
		b.WriteByte(pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return b.String(), nil
}

// Judge scores a guess against a secret. Strikes are value+position
// matches; balls are value-only matches counted by one-to-one
// consumption of the leftover digits.
func (s *Service) Judge(guess, secret string) (string, error) {
	if len(guess) != len(secret) {
		return "", ErrLengthMismatch
	}

	strikes := 0
	guessUsed := make([]bool, len(guess))
	secretUsed := make([]bool, len(secret))

	for i := 0; i < len(guess); i++ {
		if guess[i] == secret[i] {
			strikes++
			guessUsed[i] = true
			secretUsed[i] = true
		}
	}

	balls := 0
	for i := 0; i < len(guess); i++ {
		if guessUsed[i] {
			continue
		}
		for j := 0; j < len(secret); j++ {
			if !secretUsed[j] && guess[i] == secret[j] {
				balls++
				secretUsed[j] = true
				break
			}
		}
	}

	return formatResult(strikes, balls), nil
}

// IsValidInput reports whether input is a legal guess or answer for the
// settings: exact digit count, digits only, no leading zero, zero and
// duplicate rules respected.
func (s *Service) IsValidInput(input string, settings model.GameSettings) bool {
	if len(input) != settings.Digits {
		return false
	}
	seen := [10]bool{}
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c < '0' || c > '9' {
			return false
		}
		if c == '0' && (i == 0 || !settings.AllowZero) {
			return false
		}
		if !settings.AllowDuplicate && seen[c-'0'] {
			return false
		}
		seen[c-'0'] = true
	}
	return true
}

// WinningResult returns the all-strikes result string for a digit count.
func WinningResult(digits int) string {
	return fmt.Sprintf("%dS", digits)
}

func formatResult(strikes, balls int) string {
	if strikes == 0 && balls == 0 {
		return ResultOut
	}
	var parts []string
	if strikes > 0 {
		parts = append(parts, fmt.Sprintf("%dS", strikes))
	}
	if balls > 0 {
		parts = append(parts, fmt.Sprintf("%dB", balls))
	}
	return strings.Join(parts, " ")
}
