// Package session is the player session directory: it issues opaque
// session ids and maps them to lightweight player records. It knows
// nothing about rooms.
package session

import (
	"context"

	"github.com/sanghyxuk/number-baseball/internal/dependencies/clock"
	"github.com/sanghyxuk/number-baseball/internal/dependencies/random"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/storage"
)

const (
	sessionIDPrefix   = "session-"
	sessionIDLength   = 8
	sessionIDAlphabet = "0123456789abcdef"

	// DefaultNickname is used when a player did not supply one.
	DefaultNickname = "Player"
)

// Service manages player sessions.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
}

// New creates a session service.
func New(store storage.Storage, clk clock.Clock, rnd random.Random) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		random:  rnd,
	}
}

// Create issues a new session for a player. The nickname may be empty.
func (s *Service) Create(ctx context.Context, nickname string) (*model.PlayerSession, error) {
	session := &model.PlayerSession{
		ID:        model.SessionID(sessionIDPrefix + s.random.String(sessionIDLength, sessionIDAlphabet)),
		Nickname:  nickname,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get retrieves a session by id.
func (s *Service) Get(ctx context.Context, id model.SessionID) (*model.PlayerSession, error) {
	return s.storage.GetSession(ctx, id)
}

// IsValid reports whether the session id is known.
func (s *Service) IsValid(ctx context.Context, id model.SessionID) bool {
	_, err := s.storage.GetSession(ctx, id)
	return err == nil
}

// Remove deletes a session. Removing an unknown session is not an error.
func (s *Service) Remove(ctx context.Context, id model.SessionID) error {
	return s.storage.DeleteSession(ctx, id)
}

// Nickname returns the session's nickname, or the default if the
// session is unknown or never set one.
func (s *Service) Nickname(ctx context.Context, id model.SessionID) string {
	session, err := s.storage.GetSession(ctx, id)
	if err != nil || session.Nickname == "" {
		return DefaultNickname
	}
	return session.Nickname
}

// ActiveCount returns the number of live sessions, for reporting.
func (s *Service) ActiveCount(ctx context.Context) (int, error) {
	return s.storage.SessionCount(ctx)
}
