package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	creator = SessionID("session-11111111")
	joiner  = SessionID("session-22222222")
	t0      = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
)

func newTestRoom() *GameRoom {
	return NewGameRoom("ABC123", creator, DefaultSettings(), t0)
}

func roomInProgress() *GameRoom {
	r := newTestRoom()
	r.Join(joiner, t0)
	r.SetReady(creator, true, t0)
	r.SetReady(joiner, true, t0)
	r.SetAnswer(creator, "123", t0)
	r.SetAnswer(joiner, "456", t0)
	return r
}

func TestNewGameRoom(t *testing.T) {
	r := newTestRoom()
	assert.Equal(t, RoomCode("ABC123"), r.Code)
	assert.Equal(t, StatusWaitingForJoiner, r.Status)
	assert.Equal(t, creator, r.CreatorSessionID)
	assert.Empty(t, r.JoinerSessionID)
	assert.Empty(t, r.History)
	assert.Equal(t, t0, r.LastActivity)
}

func TestJoinAdvancesToWaitingForReady(t *testing.T) {
	r := newTestRoom()
	later := t0.Add(time.Minute)

	require.True(t, r.Join(joiner, later))
	assert.Equal(t, StatusWaitingForReady, r.Status)
	assert.Equal(t, joiner, r.JoinerSessionID)
	assert.Equal(t, later, r.LastActivity)
}

func TestJoinRejectedWhenOccupied(t *testing.T) {
	r := newTestRoom()
	require.True(t, r.Join(joiner, t0))

	assert.False(t, r.Join("session-33333333", t0))
	assert.Equal(t, joiner, r.JoinerSessionID)
}

func TestJoinRejectedAfterFinish(t *testing.T) {
	r := newTestRoom()
	r.Abandon(creator, t0)

	assert.False(t, r.Join(joiner, t0))
	assert.Equal(t, StatusAbandoned, r.Status)
}

func TestSetReadyAdvancesWhenBothReady(t *testing.T) {
	r := newTestRoom()
	r.Join(joiner, t0)

	r.SetReady(creator, true, t0)
	assert.Equal(t, StatusWaitingForReady, r.Status)
	assert.True(t, r.CreatorReady)
	assert.False(t, r.JoinerReady)

	r.SetReady(joiner, true, t0)
	assert.Equal(t, StatusSettingAnswers, r.Status)
}

func TestSetReadyCanBeWithdrawn(t *testing.T) {
	r := newTestRoom()
	r.Join(joiner, t0)

	r.SetReady(creator, true, t0)
	r.SetReady(creator, false, t0)
	r.SetReady(joiner, true, t0)

	assert.Equal(t, StatusWaitingForReady, r.Status)
	assert.False(t, r.CreatorReady)
}

func TestSetAnswerStartsGameWithCreatorFirst(t *testing.T) {
	r := newTestRoom()
	r.Join(joiner, t0)
	r.SetReady(creator, true, t0)
	r.SetReady(joiner, true, t0)

	r.SetAnswer(joiner, "456", t0)
	assert.Equal(t, StatusSettingAnswers, r.Status)
	assert.False(t, r.AllAnswersSet())

	r.SetAnswer(creator, "123", t0)
	assert.Equal(t, StatusInProgress, r.Status)
	assert.True(t, r.AllAnswersSet())
	assert.Equal(t, creator, r.CurrentTurn)
}

func TestAddTurnAlternatesPlayers(t *testing.T) {
	r := roomInProgress()

	turn := r.AddTurn(creator, "789", "OUT", t0)
	assert.Equal(t, 1, turn.TurnNumber)
	assert.Equal(t, joiner, r.CurrentTurn)
	assert.Equal(t, StatusInProgress, r.Status)

	turn = r.AddTurn(joiner, "145", "1S 1B", t0)
	assert.Equal(t, 2, turn.TurnNumber)
	assert.Equal(t, creator, r.CurrentTurn)
	assert.Len(t, r.History, 2)
}

func TestAddTurnWinningFinishesGame(t *testing.T) {
	r := roomInProgress()

	turn := r.AddTurn(creator, "456", "3S", t0)
	assert.True(t, turn.IsWinning(3))
	assert.Equal(t, StatusFinished, r.Status)
	assert.Empty(t, r.CurrentTurn)
}

func TestAbandonAlwaysTerminates(t *testing.T) {
	for _, status := range []GameStatus{
		StatusWaitingForJoiner, StatusWaitingForReady, StatusSettingAnswers, StatusInProgress,
	} {
		r := newTestRoom()
		r.Status = status
		r.Abandon(creator, t0)

		assert.Equal(t, StatusAbandoned, r.Status, "from %s", status)
		assert.Equal(t, creator, r.AbandonedBy)
		assert.Empty(t, r.CurrentTurn)
	}
}

func TestClearJoinerRegressesRoom(t *testing.T) {
	r := newTestRoom()
	r.Join(joiner, t0)
	r.SetReady(creator, true, t0)
	r.SetReady(joiner, true, t0)
	r.SetAnswer(joiner, "456", t0)

	r.ClearJoiner(t0)

	assert.Equal(t, StatusWaitingForJoiner, r.Status)
	assert.Empty(t, r.JoinerSessionID)
	assert.Empty(t, r.JoinerAnswer)
	assert.False(t, r.CreatorReady)
	assert.False(t, r.JoinerReady)
}

func TestOpponentLookups(t *testing.T) {
	r := roomInProgress()

	assert.Equal(t, joiner, r.Opponent(creator))
	assert.Equal(t, creator, r.Opponent(joiner))
	assert.Empty(t, r.Opponent("session-99999999"))

	assert.Equal(t, "456", r.OpponentAnswer(creator))
	assert.Equal(t, "123", r.OpponentAnswer(joiner))
	assert.Empty(t, r.OpponentAnswer("session-99999999"))
}

func TestIsPlayerInRoom(t *testing.T) {
	r := newTestRoom()
	assert.True(t, r.IsPlayerInRoom(creator))
	assert.False(t, r.IsPlayerInRoom(joiner))

	r.Join(joiner, t0)
	assert.True(t, r.IsPlayerInRoom(joiner))
}

func TestIsPlayerTurn(t *testing.T) {
	r := roomInProgress()
	assert.True(t, r.IsPlayerTurn(creator))
	assert.False(t, r.IsPlayerTurn(joiner))

	r.AddTurn(creator, "456", "3S", t0)
	assert.False(t, r.IsPlayerTurn(creator), "no turns after the game ends")
}

func TestHistorySnapshotIsACopy(t *testing.T) {
	r := roomInProgress()
	r.AddTurn(creator, "789", "OUT", t0)

	snapshot := r.HistorySnapshot()
	r.AddTurn(joiner, "111", "OUT", t0)

	assert.Len(t, snapshot, 1)
	assert.Len(t, r.History, 2)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to GameStatus
		want     bool
	}{
		{StatusWaitingForJoiner, StatusWaitingForReady, true},
		{StatusWaitingForReady, StatusSettingAnswers, true},
		{StatusWaitingForReady, StatusWaitingForJoiner, true},
		{StatusSettingAnswers, StatusInProgress, true},
		{StatusInProgress, StatusFinished, true},
		{StatusInProgress, StatusAbandoned, true},
		{StatusWaitingForJoiner, StatusInProgress, false},
		{StatusFinished, StatusAbandoned, false},
		{StatusAbandoned, StatusWaitingForJoiner, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSettingsValid(t *testing.T) {
	assert.True(t, DefaultSettings().Valid())
	assert.True(t, GameSettings{Digits: 5}.Valid())
	assert.False(t, GameSettings{Digits: 2}.Valid())
	assert.False(t, GameSettings{Digits: 6}.Valid())
	assert.False(t, GameSettings{}.Valid())
}
