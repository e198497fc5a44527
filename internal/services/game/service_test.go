package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sanghyxuk/number-baseball/internal/dependencies/mocks"
	"github.com/sanghyxuk/number-baseball/internal/judge"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/protocol"
	"github.com/sanghyxuk/number-baseball/internal/services/room"
	"github.com/sanghyxuk/number-baseball/internal/services/session"
	"github.com/sanghyxuk/number-baseball/internal/storage/memory"
	"github.com/sanghyxuk/number-baseball/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	gateway  *mocks.MockGateway
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	registry *room.Registry
	sessions *session.Service
	service  *Service
	ctx      context.Context

	creator model.SessionID
	joiner  model.SessionID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.gateway = mocks.NewMockGateway()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()

	logger := testutil.NopLogger()
	s.sessions = session.New(s.storage, s.clock, s.random)
	s.registry = room.NewRegistry(s.storage, s.gateway, s.clock, s.random, logger)
	s.service = New(s.registry, s.sessions, judge.New(s.random), s.gateway, s.clock, logger)
	s.ctx = context.Background()

	// A joined room waiting on ready flags
	s.random.QueueString("creator11", "joiner111", "ABC123")
	creator, err := s.sessions.Create(s.ctx, "Alice")
	s.Require().NoError(err)
	joinerSession, err := s.sessions.Create(s.ctx, "Bob")
	s.Require().NoError(err)
	s.creator = creator.ID
	s.joiner = joinerSession.ID

	_, err = s.registry.CreateRoom(s.ctx, s.creator, model.DefaultSettings())
	s.Require().NoError(err)
	_, err = s.registry.JoinRoom(s.ctx, "ABC123", s.joiner)
	s.Require().NoError(err)
	s.gateway.Reset()
}

func (s *ServiceSuite) currentRoom() *model.GameRoom {
	r, err := s.registry.FindByCode(s.ctx, "ABC123")
	s.Require().NoError(err)
	return r
}

func (s *ServiceSuite) bothReady() {
	s.Require().NoError(s.service.SetReady(s.ctx, s.creator, true))
	s.Require().NoError(s.service.SetReady(s.ctx, s.joiner, true))
}

func (s *ServiceSuite) startGame(creatorAnswer, joinerAnswer string) {
	s.bothReady()
	s.Require().NoError(s.service.SetAnswer(s.ctx, s.creator, creatorAnswer))
	s.Require().NoError(s.service.SetAnswer(s.ctx, s.joiner, joinerAnswer))
	s.gateway.Reset()
}

func (s *ServiceSuite) TestSetReadyBroadcasts() {
	err := s.service.SetReady(s.ctx, s.creator, true)
	s.Require().NoError(err)

	readies := s.gateway.MessagesOfType(protocol.TypePlayerReady)
	s.Require().Len(readies, 1)
	payload := readies[0].Payload.(protocol.PlayerReadyPayload)
	s.Equal(string(s.creator), payload.SessionID)
	s.True(payload.Ready)
	s.Equal("Alice", payload.Nickname)

	// One ready is not enough to advance
	s.Empty(s.gateway.MessagesOfType(protocol.TypeStateChange))
	s.Equal(model.StatusWaitingForReady, s.currentRoom().Status)
}

func (s *ServiceSuite) TestSetReadyBothAdvances() {
	s.bothReady()

	s.Equal(model.StatusSettingAnswers, s.currentRoom().Status)

	changes := s.gateway.MessagesOfType(protocol.TypeStateChange)
	s.Require().Len(changes, 1)
	payload := changes[0].Payload.(protocol.StateChangePayload)
	s.Equal(model.StatusSettingAnswers, payload.Status)
}

func (s *ServiceSuite) TestSetReadyWrongPhase() {
	s.startGame("123", "456")
	err := s.service.SetReady(s.ctx, s.creator, true)
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *ServiceSuite) TestSetReadyWithoutRoom() {
	err := s.service.SetReady(s.ctx, "session-nobody11", true)
	s.ErrorIs(err, model.ErrNoActiveRoom)
}

func (s *ServiceSuite) TestSetAnswerStartsGame() {
	s.bothReady()
	s.gateway.Reset()

	s.Require().NoError(s.service.SetAnswer(s.ctx, s.joiner, "456"))

	sets := s.gateway.MessagesOfType(protocol.TypeAnswerSet)
	s.Require().Len(sets, 1)
	payload := sets[0].Payload.(protocol.AnswerSetPayload)
	s.Equal(string(s.joiner), payload.SessionID)
	s.True(payload.AnswerSet)
	s.False(payload.AllAnswersSet)

	s.Require().NoError(s.service.SetAnswer(s.ctx, s.creator, "123"))

	r := s.currentRoom()
	s.Equal(model.StatusInProgress, r.Status)
	s.Equal(s.creator, r.CurrentTurn, "creator moves first")

	changes := s.gateway.MessagesOfType(protocol.TypeStateChange)
	s.Require().Len(changes, 1)
	s.Equal(model.StatusInProgress, changes[0].Payload.(protocol.StateChangePayload).Status)
}

func (s *ServiceSuite) TestSetAnswerValidation() {
	s.bothReady()

	s.ErrorIs(s.service.SetAnswer(s.ctx, s.creator, "12"), model.ErrInvalidAnswer)
	s.ErrorIs(s.service.SetAnswer(s.ctx, s.creator, "112"), model.ErrInvalidAnswer)
	s.ErrorIs(s.service.SetAnswer(s.ctx, s.creator, "102"), model.ErrInvalidAnswer)
	s.ErrorIs(s.service.SetAnswer(s.ctx, s.creator, "abc"), model.ErrInvalidAnswer)
}

func (s *ServiceSuite) TestSetAnswerWrongPhase() {
	err := s.service.SetAnswer(s.ctx, s.creator, "123")
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *ServiceSuite) TestGuessAlternatesTurns() {
	s.startGame("123", "456")

	s.Require().NoError(s.service.Guess(s.ctx, s.creator, "789"))

	guesses := s.gateway.MessagesOfType(protocol.TypeNewGuess)
	s.Require().Len(guesses, 1)
	payload := guesses[0].Payload.(protocol.NewGuessPayload)
	s.Equal(string(s.creator), payload.Guesser)
	s.Equal("789", payload.Guess)
	s.Equal("OUT", payload.Result)
	s.Equal(1, payload.TurnNumber)
	s.Equal(string(s.joiner), payload.NextTurn)

	s.Equal(s.joiner, s.currentRoom().CurrentTurn)
}

func (s *ServiceSuite) TestGuessScoredAgainstOpponentSecret() {
	s.startGame("123", "456")

	// Creator guesses against the joiner's secret
	s.Require().NoError(s.service.Guess(s.ctx, s.creator, "465"))

	payload := s.gateway.MessagesOfType(protocol.TypeNewGuess)[0].Payload.(protocol.NewGuessPayload)
	s.Equal("1S 2B", payload.Result)
}

func (s *ServiceSuite) TestGuessWinningFinishesGame() {
	s.startGame("123", "456")

	s.Require().NoError(s.service.Guess(s.ctx, s.creator, "456"))

	r := s.currentRoom()
	s.Equal(model.StatusFinished, r.Status)
	s.Empty(r.CurrentTurn)

	finished := s.gateway.MessagesOfType(protocol.TypeGameFinished)
	s.Require().Len(finished, 1)
	payload := finished[0].Payload.(protocol.GameFinishedPayload)
	s.Equal(string(s.creator), payload.Winner)
	s.Equal(protocol.ReasonWin, payload.Reason)
	s.Equal(1, payload.TotalTurns)
	s.Require().Len(payload.GameHistory, 1)
	s.Equal("3S", payload.GameHistory[0].Result)
}

func (s *ServiceSuite) TestGuessOutOfTurn() {
	s.startGame("123", "456")

	err := s.service.Guess(s.ctx, s.joiner, "123")
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *ServiceSuite) TestGuessValidation() {
	s.startGame("123", "456")

	s.ErrorIs(s.service.Guess(s.ctx, s.creator, "45"), model.ErrInvalidGuess)
	s.ErrorIs(s.service.Guess(s.ctx, s.creator, "4x6"), model.ErrInvalidGuess)
}

func (s *ServiceSuite) TestGuessWrongPhase() {
	err := s.service.Guess(s.ctx, s.creator, "456")
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *ServiceSuite) TestGuessAfterFinish() {
	s.startGame("123", "456")
	s.Require().NoError(s.service.Guess(s.ctx, s.creator, "456"))

	err := s.service.Guess(s.ctx, s.joiner, "123")
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *ServiceSuite) TestAbandonOpponentWins() {
	s.startGame("123", "456")

	s.Require().NoError(s.service.Abandon(s.ctx, s.creator))

	r := s.currentRoom()
	s.Equal(model.StatusAbandoned, r.Status)
	s.Equal(s.creator, r.AbandonedBy)

	finished := s.gateway.MessagesOfType(protocol.TypeGameFinished)
	s.Require().Len(finished, 1)
	payload := finished[0].Payload.(protocol.GameFinishedPayload)
	s.Equal(string(s.joiner), payload.Winner)
	s.Equal(protocol.ReasonAbandon, payload.Reason)
}

func (s *ServiceSuite) TestAbandonBeforeGameStarts() {
	// Abandonment is legal from any non-terminal state
	s.Require().NoError(s.service.Abandon(s.ctx, s.joiner))
	s.Equal(model.StatusAbandoned, s.currentRoom().Status)
}

func (s *ServiceSuite) TestAbandonTwice() {
	s.startGame("123", "456")
	s.Require().NoError(s.service.Abandon(s.ctx, s.creator))

	err := s.service.Abandon(s.ctx, s.joiner)
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *ServiceSuite) TestForfeitReportsTimeout() {
	s.startGame("123", "456")

	s.Require().NoError(s.service.Forfeit(s.ctx, s.joiner))

	payload := s.gateway.MessagesOfType(protocol.TypeGameFinished)[0].Payload.(protocol.GameFinishedPayload)
	s.Equal(string(s.creator), payload.Winner)
	s.Equal(protocol.ReasonTimeout, payload.Reason)
}

func (s *ServiceSuite) TestSuggestAnswerPrivate() {
	s.bothReady()
	s.gateway.Reset()

	// Distinct draw from "123456789"
	s.random.QueueIntn(0, 0, 0)
	s.Require().NoError(s.service.SuggestAnswer(s.ctx, s.creator))

	suggestions := s.gateway.MessagesOfType(protocol.TypeAnswerSuggested)
	s.Require().Len(suggestions, 1)
	s.Equal(s.creator, suggestions[0].SessionID, "delivered on the private channel")
	s.Empty(suggestions[0].RoomCode)
	s.Equal("123", suggestions[0].Payload.(protocol.AnswerSuggestedPayload).Answer)
}

func (s *ServiceSuite) TestSuggestAnswerWrongPhase() {
	err := s.service.SuggestAnswer(s.ctx, s.creator)
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *ServiceSuite) TestLeave() {
	s.Require().NoError(s.service.Leave(s.ctx, s.joiner))
	s.Equal(model.StatusWaitingForJoiner, s.currentRoom().Status)
}

func (s *ServiceSuite) TestStateInfo() {
	r, err := s.service.StateInfo(s.ctx, s.creator)
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ABC123"), r.Code)

	_, err = s.service.StateInfo(s.ctx, "session-nobody11")
	s.ErrorIs(err, model.ErrNoActiveRoom)
}

func (s *ServiceSuite) TestFullGame() {
	s.startGame("123", "456")

	s.Require().NoError(s.service.Guess(s.ctx, s.creator, "789"))
	s.Require().NoError(s.service.Guess(s.ctx, s.joiner, "145"))
	s.Require().NoError(s.service.Guess(s.ctx, s.creator, "654"))
	s.Require().NoError(s.service.Guess(s.ctx, s.joiner, "123"))

	r := s.currentRoom()
	s.Equal(model.StatusFinished, r.Status)
	s.Require().Len(r.History, 4)
	s.Equal("3S", r.History[3].Result)

	payload := s.gateway.MessagesOfType(protocol.TypeGameFinished)[0].Payload.(protocol.GameFinishedPayload)
	s.Equal(string(s.joiner), payload.Winner)
	s.Equal(4, payload.TotalTurns)
}
