// Package connection tracks websocket presence per session and runs
// the disconnect grace window: a player who drops mid-game has a fixed
// period to reconnect before the game is forfeited against them.
package connection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sanghyxuk/number-baseball/internal/broadcast"
	"github.com/sanghyxuk/number-baseball/internal/dependencies/clock"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/protocol"
	"github.com/sanghyxuk/number-baseball/internal/services/game"
	"github.com/sanghyxuk/number-baseball/internal/services/room"
	"github.com/sanghyxuk/number-baseball/internal/services/session"
)

// DefaultGracePeriod is how long a disconnected mid-game player has to
// reconnect before forfeiting.
const DefaultGracePeriod = 5 * time.Minute

type disconnectedPlayer struct {
	sessionID      model.SessionID
	roomCode       model.RoomCode
	disconnectedAt time.Time
	timer          *time.Timer
}

// Tracker maps live connections to sessions and parks disconnected
// mid-game players until they reconnect or their grace expires.
type Tracker struct {
	registry *room.Registry
	games    *game.Service
	sessions *session.Service
	gateway  broadcast.Gateway
	clock    clock.Clock
	logger   *slog.Logger

	grace time.Duration

	mu           sync.Mutex
	connections  map[string]model.SessionID
	disconnected map[model.SessionID]*disconnectedPlayer
	closed       bool
}

// NewTracker creates a connection tracker.
func NewTracker(
	registry *room.Registry,
	games *game.Service,
	sessions *session.Service,
	gateway broadcast.Gateway,
	clk clock.Clock,
	logger *slog.Logger,
) *Tracker {
	return &Tracker{
		registry:     registry,
		games:        games,
		sessions:     sessions,
		gateway:      gateway,
		clock:        clk,
		logger:       logger.With(slog.String("component", "connection-tracker")),
		grace:        DefaultGracePeriod,
		connections:  make(map[string]model.SessionID),
		disconnected: make(map[model.SessionID]*disconnectedPlayer),
	}
}

// SetGracePeriod overrides the reconnection window (for tests).
func (t *Tracker) SetGracePeriod(d time.Duration) {
	t.grace = d
}

// HandleConnect registers a connection for a session. A session
// returning inside its grace window gets a resync: a private state
// snapshot plus the full turn history replayed turn by turn.
func (t *Tracker) HandleConnect(ctx context.Context, connID string, sessionID model.SessionID) error {
	if !t.sessions.IsValid(ctx, sessionID) {
		return model.ErrInvalidSession
	}

	t.mu.Lock()
	t.connections[connID] = sessionID
	parked, reconnecting := t.disconnected[sessionID]
	if reconnecting {
		parked.timer.Stop()
		delete(t.disconnected, sessionID)
	}
	t.mu.Unlock()

	roomModel, err := t.registry.FindBySession(ctx, sessionID)
	if err != nil {
		// Roomless sessions still get a live connection
		return nil
	}

	status := protocol.ConnStatusConnected
	if reconnecting {
		status = protocol.ConnStatusReconnected
	}
	t.gateway.PublishToRoom(ctx, roomModel.Code, protocol.TypePlayerConnected, protocol.PlayerConnectionPayload{
		SessionID:        string(sessionID),
		Nickname:         t.sessions.Nickname(ctx, sessionID),
		Connected:        true,
		ConnectionStatus: status,
	})

	if reconnecting {
		t.logger.Info("player reconnected",
			slog.String("session", string(sessionID)),
			slog.String("room", string(roomModel.Code)))
		t.resync(ctx, sessionID, roomModel)
	}
	return nil
}

// resync replays the room's state to a single session: a private state
// change followed by the history, one guess message per turn.
func (t *Tracker) resync(ctx context.Context, sessionID model.SessionID, roomModel *model.GameRoom) {
	t.gateway.PublishToSession(ctx, sessionID, protocol.TypeStateChange, protocol.StateChangeFromRoom(roomModel))
	for _, turn := range roomModel.HistorySnapshot() {
		t.gateway.PublishToSession(ctx, sessionID, protocol.TypeNewGuess,
			protocol.NewGuessFromTurn(turn, roomModel.CurrentTurn))
	}
}

// HandleDisconnect unregisters a connection. Mid-game players are
// parked with a grace timer; everyone else just leaves their room.
func (t *Tracker) HandleDisconnect(ctx context.Context, connID string) {
	t.mu.Lock()
	sessionID, ok := t.connections[connID]
	delete(t.connections, connID)
	stillConnected := false
	if ok {
		for _, other := range t.connections {
			if other == sessionID {
				stillConnected = true
				break
			}
		}
	}
	t.mu.Unlock()
	if !ok {
		return
	}
	if stillConnected {
		// A stale disconnect racing a newer connection for the same
		// session must not park the player
		return
	}

	roomModel, err := t.registry.FindBySession(ctx, sessionID)
	if err != nil {
		return
	}

	if !roomModel.Status.IsActive() {
		// Nothing to preserve outside an active game
		if err := t.registry.LeaveRoom(ctx, sessionID); err != nil {
			t.logger.Warn("leave on disconnect failed",
				slog.String("session", string(sessionID)),
				slog.String("error", err.Error()))
		}
		return
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	if _, already := t.disconnected[sessionID]; already {
		t.mu.Unlock()
		return
	}
	parked := &disconnectedPlayer{
		sessionID:      sessionID,
		roomCode:       roomModel.Code,
		disconnectedAt: t.clock.Now(),
	}
	parked.timer = time.AfterFunc(t.grace, func() {
		t.onGraceExpired(sessionID)
	})
	t.disconnected[sessionID] = parked
	t.mu.Unlock()

	t.logger.Info("player disconnected mid-game",
		slog.String("session", string(sessionID)),
		slog.String("room", string(roomModel.Code)),
		slog.Duration("grace", t.grace))

	t.gateway.PublishToRoom(ctx, roomModel.Code, protocol.TypePlayerDisconnected, protocol.PlayerConnectionPayload{
		SessionID:        string(sessionID),
		Nickname:         t.sessions.Nickname(ctx, sessionID),
		Connected:        false,
		ConnectionStatus: protocol.ConnStatusDisconnected,
	})
}

// onGraceExpired forfeits the game against a player who never came
// back. Presence in the disconnected map is re-checked under the lock,
// so a reconnect that raced the timer wins and this becomes a no-op.
func (t *Tracker) onGraceExpired(sessionID model.SessionID) {
	t.mu.Lock()
	_, stillGone := t.disconnected[sessionID]
	if stillGone {
		delete(t.disconnected, sessionID)
	}
	t.mu.Unlock()
	if !stillGone {
		return
	}

	ctx := context.Background()
	t.logger.Info("reconnection grace expired", slog.String("session", string(sessionID)))

	if err := t.games.Forfeit(ctx, sessionID); err != nil {
		t.logger.Warn("timeout forfeit failed",
			slog.String("session", string(sessionID)),
			slog.String("error", err.Error()))
	}
	if err := t.sessions.Remove(ctx, sessionID); err != nil {
		t.logger.Warn("session removal failed",
			slog.String("session", string(sessionID)),
			slog.String("error", err.Error()))
	}
}

// IsDisconnected reports whether a session is parked in its grace
// window.
func (t *Tracker) IsDisconnected(sessionID model.SessionID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.disconnected[sessionID]
	return ok
}

// ConnectedCount returns the number of live connections.
func (t *Tracker) ConnectedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.connections)
}

// Close stops all pending grace timers. No forfeits fire after Close.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for sessionID, parked := range t.disconnected {
		parked.timer.Stop()
		delete(t.disconnected, sessionID)
	}
}
