package main

import (
	"testing"
	"time"

	"go-ttt/internal/board"
	"go-ttt/internal/game"
	"go-ttt/internal/state"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, mode state.Mode, delay time.Duration) *LocalState {
	t.Helper()
	sess, err := game.NewSession(game.Options{Mode: mode, Seed: 5}, nil, nil)
	require.NoError(t, err)
	return initialModel(sess, delay)
}

func runeKey(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func press(m *LocalState, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(runeKey(k))
	}
	return cmd
}

func TestModel_DigitPlacesMark(t *testing.T) {
	m := newTestModel(t, state.VersusHuman, 0)
	press(m, "1")

	assert.Equal(t, board.X, m.Session.Snapshot().Board[0])
	assert.Equal(t, 0, m.Cursor)
}

func TestModel_CursorAndEnter(t *testing.T) {
	m := newTestModel(t, state.VersusHuman, 0)
	require.Equal(t, board.Center, m.Cursor)

	press(m, "k", "h") // up, left
	assert.Equal(t, 0, m.Cursor)
	press(m, "k", "h") // stays inside the grid
	assert.Equal(t, 0, m.Cursor)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 4, m.Cursor)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, board.X, m.Session.Snapshot().Board[4])
}

func TestModel_ComputerRevealDelay(t *testing.T) {
	m := newTestModel(t, state.VersusComputer, time.Second)

	cmd := press(m, "1")
	require.NotNil(t, cmd, "reveal tick expected")

	// Core already holds the reply; the view hides it.
	assert.Equal(t, board.O, m.Session.Snapshot().Board[4])
	assert.Equal(t, 4, m.hidden)
	assert.Equal(t, board.Empty, m.displaySnapshot().Board[4])
	assert.Contains(t, m.View(), "AI thinking...")

	// Input is ignored until the reveal.
	press(m, "9")
	assert.Equal(t, board.Empty, m.Session.Snapshot().Board[8])

	m.Update(revealMsg{seq: m.revealSeq})
	assert.Equal(t, -1, m.hidden)
	assert.Contains(t, m.View(), "Your turn")

	press(m, "9")
	assert.Equal(t, board.X, m.Session.Snapshot().Board[8])
}

func TestModel_StaleRevealIgnored(t *testing.T) {
	m := newTestModel(t, state.VersusComputer, time.Second)
	press(m, "1")
	stale := m.revealSeq

	press(m, "n") // new round cancels the pending reveal
	assert.Equal(t, -1, m.hidden)

	press(m, "3")
	require.GreaterOrEqual(t, m.hidden, 0)
	m.Update(revealMsg{seq: stale})
	assert.GreaterOrEqual(t, m.hidden, 0, "old tick must not reveal a newer move")
}

func TestModel_HiddenComputerWin(t *testing.T) {
	m := newTestModel(t, state.VersusComputer, time.Second)
	for _, k := range []string{"1", "2", "7", "9"} {
		press(m, k)
		if k != "9" {
			m.Update(revealMsg{seq: m.revealSeq})
		}
	}
	require.Equal(t, state.Won, m.Session.Snapshot().Phase)

	shown := m.displaySnapshot()
	assert.Equal(t, state.InProgress, shown.Phase)
	assert.Zero(t, shown.Scores.WinsO, "score appears with the move")
	assert.NotContains(t, m.View(), "AI wins!")

	_, cmd := m.Update(revealMsg{seq: m.revealSeq})
	require.NotNil(t, cmd, "auto reset expected after reveal")
	assert.Contains(t, m.View(), "AI wins!")
}

func TestModel_AutoReset(t *testing.T) {
	m := newTestModel(t, state.VersusHuman, 0)
	var cmd tea.Cmd
	for _, k := range []string{"1", "4", "2", "5", "3"} {
		cmd = press(m, k)
	}
	require.Equal(t, state.Won, m.Session.Snapshot().Phase)
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Player X wins!")

	round := m.Session.Snapshot().Round
	m.Update(resetMsg{round: round - 1})
	assert.Equal(t, state.Won, m.Session.Snapshot().Phase, "stale reset ignored")

	m.Update(resetMsg{round: round})
	snap := m.Session.Snapshot()
	assert.Equal(t, state.InProgress, snap.Phase)
	assert.Equal(t, board.Board{}, snap.Board)
	assert.Equal(t, 1, snap.Scores.WinsX)
}

func TestModel_ModeAndScoreKeys(t *testing.T) {
	m := newTestModel(t, state.VersusComputer, 0)
	press(m, "p")
	assert.Equal(t, state.VersusHuman, m.Session.Snapshot().Mode)
	assert.Contains(t, m.View(), "Player 2 (O)")

	for _, k := range []string{"1", "4", "2", "5", "3"} {
		press(m, k)
	}
	press(m, "a")
	assert.Equal(t, state.VersusComputer, m.Session.Snapshot().Mode)
	assert.Equal(t, 1, m.Session.Snapshot().Scores.WinsX)

	press(m, "r")
	assert.Zero(t, m.Session.Snapshot().Scores.WinsX)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, state.VersusHuman, 0)
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestFinalSummary(t *testing.T) {
	m := newTestModel(t, state.VersusHuman, 0)
	for _, k := range []string{"1", "4", "2", "5", "3"} {
		press(m, k)
	}
	assert.Equal(t, "Rounds played: 1 | X: 1 | O: 0 | Ties: 0", finalSummary(m.Session))
}
