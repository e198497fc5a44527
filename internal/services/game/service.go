// Package game implements in-game actions: readiness, committing
// secrets, guessing, and abandonment. It owns no state of its own;
// every mutation runs inside the registry's exclusive room handle.
package game

import (
	"context"
	"log/slog"

	"github.com/sanghyxuk/number-baseball/internal/broadcast"
	"github.com/sanghyxuk/number-baseball/internal/dependencies/clock"
	"github.com/sanghyxuk/number-baseball/internal/judge"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/protocol"
	"github.com/sanghyxuk/number-baseball/internal/services/room"
	"github.com/sanghyxuk/number-baseball/internal/services/session"
)

// Service executes in-game actions against the room registry.
type Service struct {
	registry *room.Registry
	sessions *session.Service
	judge    *judge.Service
	gateway  broadcast.Gateway
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a game service.
func New(
	registry *room.Registry,
	sessions *session.Service,
	j *judge.Service,
	gateway broadcast.Gateway,
	clk clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		registry: registry,
		sessions: sessions,
		judge:    j,
		gateway:  gateway,
		clock:    clk,
		logger:   logger.With(slog.String("component", "game-service")),
	}
}

// SetReady toggles the acting player's ready flag. When both players
// are ready the room advances to answer-setting.
func (s *Service) SetReady(ctx context.Context, sessionID model.SessionID, ready bool) error {
	roomModel, err := s.registry.FindBySession(ctx, sessionID)
	if err != nil {
		return err
	}

	var advanced bool
	err = s.registry.WithRoom(ctx, roomModel.Code, func(r *model.GameRoom) error {
		if !r.IsPlayerInRoom(sessionID) {
			return model.ErrNotInRoom
		}
		if r.Status != model.StatusWaitingForReady {
			return model.ErrInvalidState
		}
		before := r.Status
		r.SetReady(sessionID, ready, s.clock.Now())
		advanced = r.Status != before
		return nil
	})
	if err != nil {
		return err
	}

	s.gateway.PublishToRoom(ctx, roomModel.Code, protocol.TypePlayerReady, protocol.PlayerReadyPayload{
		SessionID: string(sessionID),
		Ready:     ready,
		Nickname:  s.sessions.Nickname(ctx, sessionID),
	})
	if advanced {
		s.registry.BroadcastStateChange(ctx, roomModel.Code)
	}
	return nil
}

// SetAnswer commits the acting player's secret. When both secrets are
// in, the game starts with the creator to move.
func (s *Service) SetAnswer(ctx context.Context, sessionID model.SessionID, answer string) error {
	roomModel, err := s.registry.FindBySession(ctx, sessionID)
	if err != nil {
		return err
	}

	var started, allSet bool
	err = s.registry.WithRoom(ctx, roomModel.Code, func(r *model.GameRoom) error {
		if !r.IsPlayerInRoom(sessionID) {
			return model.ErrNotInRoom
		}
		if r.Status != model.StatusSettingAnswers {
			return model.ErrInvalidState
		}
		if !s.judge.IsValidInput(answer, r.Settings) {
			return model.ErrInvalidAnswer
		}
		r.SetAnswer(sessionID, answer, s.clock.Now())
		allSet = r.AllAnswersSet()
		started = r.Status == model.StatusInProgress
		return nil
	})
	if err != nil {
		return err
	}

	s.gateway.PublishToRoom(ctx, roomModel.Code, protocol.TypeAnswerSet, protocol.AnswerSetPayload{
		SessionID:     string(sessionID),
		AnswerSet:     true,
		AllAnswersSet: allSet,
	})
	if started {
		s.logger.Info("game started", slog.String("room", string(roomModel.Code)))
		s.registry.BroadcastStateChange(ctx, roomModel.Code)
	}
	return nil
}

// Guess judges the acting player's guess against the opponent's secret
// and records the turn. A full-strike result finishes the game with
// the guesser as winner.
func (s *Service) Guess(ctx context.Context, sessionID model.SessionID, guess string) error {
	roomModel, err := s.registry.FindBySession(ctx, sessionID)
	if err != nil {
		return err
	}

	var (
		turn     model.GameTurn
		nextTurn model.SessionID
		finished bool
		history  []model.GameTurn
	)
	err = s.registry.WithRoom(ctx, roomModel.Code, func(r *model.GameRoom) error {
		if !r.IsPlayerInRoom(sessionID) {
			return model.ErrNotInRoom
		}
		if r.Status != model.StatusInProgress {
			return model.ErrInvalidState
		}
		if !r.IsPlayerTurn(sessionID) {
			return model.ErrNotYourTurn
		}
		if !s.judge.IsValidInput(guess, r.Settings) {
			return model.ErrInvalidGuess
		}
		result, err := s.judge.Judge(guess, r.OpponentAnswer(sessionID))
		if err != nil {
			return err
		}
		turn = r.AddTurn(sessionID, guess, result, s.clock.Now())
		nextTurn = r.CurrentTurn
		finished = r.Status == model.StatusFinished
		if finished {
			history = r.HistorySnapshot()
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.gateway.PublishToRoom(ctx, roomModel.Code, protocol.TypeNewGuess, protocol.NewGuessFromTurn(turn, nextTurn))

	if finished {
		s.logger.Info("game won",
			slog.String("room", string(roomModel.Code)),
			slog.String("winner", string(sessionID)),
			slog.Int("turns", len(history)))
		s.gateway.PublishToRoom(ctx, roomModel.Code, protocol.TypeGameFinished,
			protocol.GameFinished(sessionID, protocol.ReasonWin, history))
	}
	return nil
}

// Abandon forfeits the acting player's game. The opponent wins. Works
// from any non-terminal in-room state.
func (s *Service) Abandon(ctx context.Context, sessionID model.SessionID) error {
	return s.abandon(ctx, sessionID, protocol.ReasonAbandon)
}

// Forfeit ends the game against a player whose reconnection grace ran
// out.
func (s *Service) Forfeit(ctx context.Context, sessionID model.SessionID) error {
	return s.abandon(ctx, sessionID, protocol.ReasonTimeout)
}

func (s *Service) abandon(ctx context.Context, sessionID model.SessionID, reason string) error {
	roomModel, err := s.registry.FindBySession(ctx, sessionID)
	if err != nil {
		return err
	}

	var (
		winner  model.SessionID
		history []model.GameTurn
	)
	err = s.registry.WithRoom(ctx, roomModel.Code, func(r *model.GameRoom) error {
		if !r.IsPlayerInRoom(sessionID) {
			return model.ErrNotInRoom
		}
		if r.Status.IsFinished() {
			return model.ErrInvalidState
		}
		r.Abandon(sessionID, s.clock.Now())
		winner = r.Opponent(sessionID)
		history = r.HistorySnapshot()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("game abandoned",
		slog.String("room", string(roomModel.Code)),
		slog.String("by", string(sessionID)),
		slog.String("reason", reason))
	s.gateway.PublishToRoom(ctx, roomModel.Code, protocol.TypeGameFinished,
		protocol.GameFinished(winner, reason, history))
	return nil
}

// Leave removes the acting player from their room via the registry.
func (s *Service) Leave(ctx context.Context, sessionID model.SessionID) error {
	return s.registry.LeaveRoom(ctx, sessionID)
}

// SuggestAnswer generates a candidate secret for the player's room
// settings and delivers it on their private channel only.
func (s *Service) SuggestAnswer(ctx context.Context, sessionID model.SessionID) error {
	roomModel, err := s.registry.FindBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !roomModel.IsPlayerInRoom(sessionID) {
		return model.ErrNotInRoom
	}
	if roomModel.Status != model.StatusSettingAnswers {
		return model.ErrInvalidState
	}

	answer, err := s.judge.GenerateAnswer(roomModel.Settings)
	if err != nil {
		return err
	}
	s.gateway.PublishToSession(ctx, sessionID, protocol.TypeAnswerSuggested,
		protocol.AnswerSuggestedPayload{Answer: answer})
	return nil
}

// StateInfo returns the player's current room state payload plus a
// history snapshot, for REST reads and resync.
func (s *Service) StateInfo(ctx context.Context, sessionID model.SessionID) (*model.GameRoom, error) {
	return s.registry.FindBySession(ctx, sessionID)
}
