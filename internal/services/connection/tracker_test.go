package connection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sanghyxuk/number-baseball/internal/dependencies/mocks"
	"github.com/sanghyxuk/number-baseball/internal/judge"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/protocol"
	"github.com/sanghyxuk/number-baseball/internal/services/game"
	"github.com/sanghyxuk/number-baseball/internal/services/room"
	"github.com/sanghyxuk/number-baseball/internal/services/session"
	"github.com/sanghyxuk/number-baseball/internal/storage/memory"
	"github.com/sanghyxuk/number-baseball/internal/testutil"
)

type TrackerSuite struct {
	suite.Suite
	storage  *memory.Storage
	gateway  *mocks.MockGateway
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	registry *room.Registry
	sessions *session.Service
	games    *game.Service
	tracker  *Tracker
	ctx      context.Context

	creator model.SessionID
	joiner  model.SessionID
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	s.storage = memory.New()
	s.gateway = mocks.NewMockGateway()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()

	logger := testutil.NopLogger()
	s.sessions = session.New(s.storage, s.clock, s.random)
	s.registry = room.NewRegistry(s.storage, s.gateway, s.clock, s.random, logger)
	s.games = game.New(s.registry, s.sessions, judge.New(s.random), s.gateway, s.clock, logger)
	s.tracker = NewTracker(s.registry, s.games, s.sessions, s.gateway, s.clock, logger)
	s.ctx = context.Background()

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

func (s *TrackerSuite) TearDownTest() {
	s.tracker.Close()
}

func (s *TrackerSuite) startGame() {
	s.Require().NoError(s.games.SetReady(s.ctx, s.creator, true))
	s.Require().NoError(s.games.SetReady(s.ctx, s.joiner, true))
	s.Require().NoError(s.games.SetAnswer(s.ctx, s.creator, "123"))
	s.Require().NoError(s.games.SetAnswer(s.ctx, s.joiner, "456"))
	s.gateway.Reset()
}

func (s *TrackerSuite) currentRoom() *model.GameRoom {
	r, err := s.registry.FindByCode(s.ctx, "ABC123")
	s.Require().NoError(err)
	return r
}

func (s *TrackerSuite) TestConnectInvalidSession() {
	err := s.tracker.HandleConnect(s.ctx, "conn-1", "session-missing1")
	s.ErrorIs(err, model.ErrInvalidSession)
	s.Equal(0, s.tracker.ConnectedCount())
}

func (s *TrackerSuite) TestConnectAnnouncesToRoom() {
	err := s.tracker.HandleConnect(s.ctx, "conn-1", s.creator)
	s.Require().NoError(err)
	s.Equal(1, s.tracker.ConnectedCount())

	connects := s.gateway.MessagesOfType(protocol.TypePlayerConnected)
	s.Require().Len(connects, 1)
	payload := connects[0].Payload.(protocol.PlayerConnectionPayload)
	s.Equal(string(s.creator), payload.SessionID)
	s.Equal("Alice", payload.Nickname)
	s.True(payload.Connected)
	s.Equal(protocol.ConnStatusConnected, payload.ConnectionStatus)
}

func (s *TrackerSuite) TestConnectRoomlessSession() {
	s.random.QueueString("lonely111")
	lonely, err := s.sessions.Create(s.ctx, "Carol")
	s.Require().NoError(err)

	s.Require().NoError(s.tracker.HandleConnect(s.ctx, "conn-1", lonely.ID))
	s.Equal(1, s.tracker.ConnectedCount())
	s.Empty(s.gateway.Messages)
}

func (s *TrackerSuite) TestDisconnectOutsideGameLeavesRoom() {
	s.Require().NoError(s.tracker.HandleConnect(s.ctx, "conn-1", s.joiner))

	s.tracker.HandleDisconnect(s.ctx, "conn-1")

	s.Equal(0, s.tracker.ConnectedCount())
	s.False(s.tracker.IsDisconnected(s.joiner))
	s.Equal(model.StatusWaitingForJoiner, s.currentRoom().Status)
}

func (s *TrackerSuite) TestDisconnectMidGameParksPlayer() {
	s.startGame()
	s.Require().NoError(s.tracker.HandleConnect(s.ctx, "conn-1", s.joiner))
	s.gateway.Reset()

	s.tracker.HandleDisconnect(s.ctx, "conn-1")

	s.True(s.tracker.IsDisconnected(s.joiner))
	s.Equal(model.StatusInProgress, s.currentRoom().Status, "game survives the disconnect")

	drops := s.gateway.MessagesOfType(protocol.TypePlayerDisconnected)
	s.Require().Len(drops, 1)
	payload := drops[0].Payload.(protocol.PlayerConnectionPayload)
	s.Equal(string(s.joiner), payload.SessionID)
	s.False(payload.Connected)
	s.Equal(protocol.ConnStatusDisconnected, payload.ConnectionStatus)
}

func (s *TrackerSuite) TestGraceExpiryForfeitsGame() {
	s.tracker.SetGracePeriod(20 * time.Millisecond)
	s.startGame()
	s.Require().NoError(s.tracker.HandleConnect(s.ctx, "conn-1", s.joiner))
	s.gateway.Reset()

	s.tracker.HandleDisconnect(s.ctx, "conn-1")

	s.Require().Eventually(func() bool {
		return !s.tracker.IsDisconnected(s.joiner)
	}, time.Second, 5*time.Millisecond)
	s.Require().Eventually(func() bool {
		return len(s.gateway.MessagesOfType(protocol.TypeGameFinished)) == 1
	}, time.Second, 5*time.Millisecond)

	payload := s.gateway.MessagesOfType(protocol.TypeGameFinished)[0].Payload.(protocol.GameFinishedPayload)
	s.Equal(string(s.creator), payload.Winner)
	s.Equal(protocol.ReasonTimeout, payload.Reason)

	s.Equal(model.StatusAbandoned, s.currentRoom().Status)
	s.False(s.sessions.IsValid(s.ctx, s.joiner), "expired session is removed")
}

func (s *TrackerSuite) TestReconnectBeforeExpiryCancelsForfeit() {
	s.tracker.SetGracePeriod(50 * time.Millisecond)
	s.startGame()
	s.Require().NoError(s.tracker.HandleConnect(s.ctx, "conn-1", s.joiner))
	s.tracker.HandleDisconnect(s.ctx, "conn-1")
	s.Require().True(s.tracker.IsDisconnected(s.joiner))
	s.gateway.Reset()

	s.Require().NoError(s.tracker.HandleConnect(s.ctx, "conn-2", s.joiner))
	s.False(s.tracker.IsDisconnected(s.joiner))

	// Well past the original grace window: no forfeit fires
	time.Sleep(120 * time.Millisecond)
	s.Empty(s.gateway.MessagesOfType(protocol.TypeGameFinished))
	s.Equal(model.StatusInProgress, s.currentRoom().Status)
	s.True(s.sessions.IsValid(s.ctx, s.joiner))
}

func (s *TrackerSuite) TestStaleDisconnectAfterReplacementConnection() {
	s.tracker.SetGracePeriod(20 * time.Millisecond)
	s.startGame()
	s.Require().NoError(s.tracker.HandleConnect(s.ctx, "conn-1", s.joiner))
	s.Require().NoError(s.tracker.HandleConnect(s.ctx, "conn-2", s.joiner))
	s.gateway.Reset()

	// conn-1's close is processed after its replacement is already live
	s.tracker.HandleDisconnect(s.ctx, "conn-1")

	s.False(s.tracker.IsDisconnected(s.joiner))
	s.Equal(1, s.tracker.ConnectedCount())
	s.Empty(s.gateway.MessagesOfType(protocol.TypePlayerDisconnected))

	// No grace timer was started, so nothing fires
	time.Sleep(60 * time.Millisecond)
	s.Empty(s.gateway.MessagesOfType(protocol.TypeGameFinished))
	s.Equal(model.StatusInProgress, s.currentRoom().Status)
	s.True(s.sessions.IsValid(s.ctx, s.joiner))
}

func (s *TrackerSuite) TestReconnectRacingExpiryHasOneOutcome() {
	s.tracker.SetGracePeriod(10 * time.Millisecond)
	s.startGame()
	s.Require().NoError(s.tracker.HandleConnect(s.ctx, "conn-1", s.joiner))
	s.tracker.HandleDisconnect(s.ctx, "conn-1")
	s.gateway.Reset()

	// Reconnect lands right as the grace window closes; either side may
	// win, but never both
	done := make(chan error, 1)
	go func() {
		time.Sleep(10 * time.Millisecond)
		done <- s.tracker.HandleConnect(s.ctx, "conn-2", s.joiner)
	}()
	reconnectErr := <-done

	// Let a winning timer run to completion
	time.Sleep(50 * time.Millisecond)

	finished := s.gateway.MessagesOfType(protocol.TypeGameFinished)
	if len(finished) == 0 {
		// Reconnect won: the game is untouched
		s.Require().NoError(reconnectErr)
		s.False(s.tracker.IsDisconnected(s.joiner))
		s.Equal(model.StatusInProgress, s.currentRoom().Status)
		s.True(s.sessions.IsValid(s.ctx, s.joiner))
	} else {
		// Expiry won: exactly one forfeit, session gone
		s.Require().Len(finished, 1)
		s.Equal(protocol.ReasonTimeout, finished[0].Payload.(protocol.GameFinishedPayload).Reason)
		s.Equal(string(s.creator), finished[0].Payload.(protocol.GameFinishedPayload).Winner)
		s.Equal(model.StatusAbandoned, s.currentRoom().Status)
		s.False(s.sessions.IsValid(s.ctx, s.joiner))
	}
}

func (s *TrackerSuite) TestReconnectResync() {
	s.startGame()
	s.Require().NoError(s.games.Guess(s.ctx, s.creator, "465"))
	s.Require().NoError(s.games.Guess(s.ctx, s.joiner, "132"))

	s.Require().NoError(s.tracker.HandleConnect(s.ctx, "conn-1", s.joiner))
	s.tracker.HandleDisconnect(s.ctx, "conn-1")
	s.gateway.Reset()

	s.Require().NoError(s.tracker.HandleConnect(s.ctx, "conn-2", s.joiner))

	connects := s.gateway.MessagesOfType(protocol.TypePlayerConnected)
	s.Require().Len(connects, 1)
	s.Equal(protocol.ConnStatusReconnected,
		connects[0].Payload.(protocol.PlayerConnectionPayload).ConnectionStatus)

	// Private snapshot plus the full history replay
	changes := s.gateway.MessagesOfType(protocol.TypeStateChange)
	s.Require().Len(changes, 1)
	s.Equal(s.joiner, changes[0].SessionID)
	s.Equal(model.StatusInProgress, changes[0].Payload.(protocol.StateChangePayload).Status)

	replays := s.gateway.MessagesOfType(protocol.TypeNewGuess)
	s.Require().Len(replays, 2)
	s.Equal(s.joiner, replays[0].SessionID)
	s.Equal("465", replays[0].Payload.(protocol.NewGuessPayload).Guess)
	s.Equal("132", replays[1].Payload.(protocol.NewGuessPayload).Guess)
}

func (s *TrackerSuite) TestDisconnectUnknownConnection() {
	s.tracker.HandleDisconnect(s.ctx, "conn-unknown")
	s.Empty(s.gateway.Messages)
}

func (s *TrackerSuite) TestCloseStopsPendingTimers() {
	s.tracker.SetGracePeriod(30 * time.Millisecond)
	s.startGame()
	s.Require().NoError(s.tracker.HandleConnect(s.ctx, "conn-1", s.joiner))
	s.tracker.HandleDisconnect(s.ctx, "conn-1")
	s.gateway.Reset()

	s.tracker.Close()

	time.Sleep(80 * time.Millisecond)
	s.Empty(s.gateway.MessagesOfType(protocol.TypeGameFinished))
	s.Equal(model.StatusInProgress, s.currentRoom().Status)
}
