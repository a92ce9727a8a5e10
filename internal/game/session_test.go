package game

import (
	"errors"
	"testing"
	"time"

	"go-ttt/internal/board"
	"go-ttt/internal/scoring"
	"go-ttt/internal/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, mode state.Mode, store scoring.HistoryStorage) *Session {
	t.Helper()
	sess, err := NewSession(Options{Mode: mode, Seed: 11}, store, nil)
	require.NoError(t, err)
	return sess
}

// winForX plays a quick top-row win in VersusHuman mode.
func winForX(t *testing.T, sess *Session) {
	t.Helper()
	for _, c := range []int{0, 3, 1, 4, 2} {
		require.NotNil(t, sess.Move(c))
	}
	require.Equal(t, state.Won, sess.Snapshot().Phase)
}

func TestSession_Init(t *testing.T) {
	store := &MockStorage{Records: []scoring.SessionRecord{
		{Mode: "ai", WinsX: 1, Played: 1},
		{Mode: "ai", WinsO: 2, Played: 2},
	}}
	sess := newTestSession(t, state.VersusComputer, store)

	_, err := uuid.Parse(sess.ID)
	assert.NoError(t, err, "session id should be a uuid")
	assert.Equal(t, 2, sess.History().Sessions)
	assert.Equal(t, scoring.ScoreBoard{WinsX: 1, WinsO: 2}, sess.History().Mode("ai"))
	assert.Equal(t, DefaultWinResetDelay, sess.Options.WinResetDelay)
	assert.Equal(t, DefaultTieResetDelay, sess.Options.TieResetDelay)
	assert.Equal(t, state.VersusComputer, sess.Snapshot().Mode)
}

func TestSession_InitLoadError(t *testing.T) {
	store := &MockStorage{LoadErr: errors.New("disk on fire")}
	_, err := NewSession(Options{}, store, nil)
	assert.ErrorContains(t, err, "disk on fire")
}

func TestSession_NilStorage(t *testing.T) {
	sess := newTestSession(t, state.VersusHuman, nil)
	winForX(t, sess)
	assert.NoError(t, sess.Close())
	assert.Zero(t, sess.History().Sessions)
}

func TestSession_ResetDelay(t *testing.T) {
	sess, err := NewSession(Options{Mode: state.VersusHuman, WinResetDelay: time.Second, TieResetDelay: 500 * time.Millisecond}, nil, nil)
	require.NoError(t, err)

	_, ok := sess.ResetDelay()
	assert.False(t, ok)

	winForX(t, sess)
	d, ok := sess.ResetDelay()
	assert.True(t, ok)
	assert.Equal(t, time.Second, d)

	sess.NewRound()
	for _, c := range []int{0, 1, 2, 4, 3, 5, 7, 6, 8} {
		sess.Move(c)
	}
	d, ok = sess.ResetDelay()
	assert.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, d)
}

func TestSession_AutoReset(t *testing.T) {
	sess := newTestSession(t, state.VersusHuman, nil)
	round := sess.Snapshot().Round

	assert.False(t, sess.AutoReset(round), "round still in progress")

	winForX(t, sess)
	assert.False(t, sess.AutoReset(round-1), "stale timer")
	assert.True(t, sess.AutoReset(round))

	snap := sess.Snapshot()
	assert.Equal(t, state.InProgress, snap.Phase)
	assert.Equal(t, 1, snap.Scores.WinsX)
	assert.False(t, sess.AutoReset(round), "already reset")
}

func TestSession_AutoResetAfterManualReset(t *testing.T) {
	sess := newTestSession(t, state.VersusHuman, nil)
	winForX(t, sess)
	finished := sess.Snapshot().Round

	// The player starts a new round by hand and makes a move before the
	// timer for the finished round fires.
	sess.NewRound()
	sess.Move(4)
	assert.False(t, sess.AutoReset(finished))
	assert.Equal(t, board.X, sess.Snapshot().Board[4], "fresh round must survive the stale timer")
}

func TestSession_ModeSwitchAndScores(t *testing.T) {
	sess := newTestSession(t, state.VersusHuman, nil)
	winForX(t, sess)

	sess.SwitchMode(state.VersusComputer)
	assert.Equal(t, 1, sess.Snapshot().Scores.WinsX)

	sess.ResetScores()
	assert.Equal(t, scoring.ScoreBoard{}, sess.Snapshot().Scores)
	assert.Equal(t, 1, sess.Played(), "played rounds survive a score reset")
}

func TestSession_Close(t *testing.T) {
	store := &MockStorage{}
	sess := newTestSession(t, state.VersusHuman, store)
	winForX(t, sess)
	sess.AutoReset(sess.Snapshot().Round)
	winForX(t, sess)

	require.NoError(t, sess.Close())
	require.Len(t, store.Records, 1)

	record := store.Records[0]
	assert.Equal(t, sess.ID, record.ID)
	assert.Equal(t, "multiplayer", record.Mode)
	assert.Equal(t, 2, record.WinsX)
	assert.Equal(t, 2, record.Played)
	assert.False(t, record.EndedAt.Before(record.StartedAt))

	require.NoError(t, sess.Close())
	assert.Equal(t, 1, store.AppendCalls, "second close is a no-op")
}

func TestSession_CloseWithoutRounds(t *testing.T) {
	store := &MockStorage{}
	sess := newTestSession(t, state.VersusComputer, store)
	sess.Move(0)

	require.NoError(t, sess.Close())
	assert.Zero(t, store.AppendCalls)
}

func TestSession_CloseError(t *testing.T) {
	store := &MockStorage{AppendErr: errors.New("read-only")}
	sess := newTestSession(t, state.VersusHuman, store)
	winForX(t, sess)

	assert.ErrorContains(t, sess.Close(), "read-only")
}
