package main

import (
	"fmt"
	"strings"

	"go-ttt/internal/board"
	"go-ttt/internal/game"
	"go-ttt/internal/state"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	xStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")) // Blue for X
	oStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))  // Red for O
	winStyle    = lipgloss.NewStyle().Bold(true).Blink(true).Foreground(lipgloss.Color("10"))
	fadedStyle  = lipgloss.NewStyle().Faint(true)
	statusStyle = lipgloss.NewStyle().Italic(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "240"})

	cellStyle   = lipgloss.NewStyle().Width(5).Align(lipgloss.Center)
	cursorStyle = cellStyle.Reverse(true)

	scoreBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(16).
			Align(lipgloss.Center)
	activeScoreBoxStyle = scoreBoxStyle.BorderForeground(lipgloss.Color("11"))
)

// displaySnapshot is the state as the player should currently see it: a
// computer move whose reveal is pending is left out, along with any result
// it produced.
func (s *LocalState) displaySnapshot() state.Snapshot {
	snap := s.Session.Snapshot()
	if s.hidden < 0 {
		return snap
	}

	snap.Board[s.hidden] = board.Empty
	switch snap.Phase {
	case state.Won:
		if snap.Winner == state.ComputerMark {
			snap.Scores.WinsO--
		}
	case state.Tied:
		snap.Scores.Ties--
	}
	snap.Phase = state.InProgress
	snap.Winner = board.Empty
	snap.Active = state.ComputerMark
	return snap
}

func (s *LocalState) status() string {
	if s.hidden >= 0 {
		return "AI thinking..."
	}
	return s.Session.CurrentGame.Status()
}

func renderMark(m board.Mark) string {
	switch m {
	case board.X:
		return xStyle.Render("X")
	case board.O:
		return oStyle.Render("O")
	default:
		return " "
	}
}

// RenderBoard draws the grid. On a won board the winning line blinks and
// every other mark fades.
func (s *LocalState) RenderBoard(snap state.Snapshot) string {
	onLine := map[int]bool{}
	if snap.Phase == state.Won {
		for _, i := range snap.WinLine {
			onLine[i] = true
		}
	}

	rows := make([]string, 0, 5)
	for r := 0; r < 3; r++ {
		cells := make([]string, 0, 5)
		for c := 0; c < 3; c++ {
			i := r*3 + c
			m := snap.Board[i]

			content := renderMark(m)
			switch {
			case onLine[i]:
				content = winStyle.Render(m.String())
			case snap.Phase == state.Won && m != board.Empty:
				content = fadedStyle.Render(m.String())
			case m == board.Empty && snap.Phase == state.InProgress:
				content = dimStyle.Render(fmt.Sprint(i + 1))
			}

			style := cellStyle
			if i == s.Cursor && snap.Phase == state.InProgress {
				style = cursorStyle
			}
			cells = append(cells, style.Render(content))
			if c < 2 {
				cells = append(cells, "│")
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		if r < 2 {
			rows = append(rows, strings.Repeat("─", 5)+"┼"+strings.Repeat("─", 5)+"┼"+strings.Repeat("─", 5))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (s *LocalState) renderScores(snap state.Snapshot) string {
	g := s.Session.CurrentGame
	box := func(label string, value int, active bool) string {
		style := scoreBoxStyle
		if active {
			style = activeScoreBoxStyle
		}
		return style.Render(label + "\n" + fmt.Sprint(value))
	}

	inProgress := snap.Phase == state.InProgress
	return lipgloss.JoinHorizontal(lipgloss.Top,
		box(g.ScoreLabel(board.X), snap.Scores.WinsX, inProgress && snap.Active == board.X),
		box(g.ScoreLabel(board.Empty), snap.Scores.Ties, false),
		box(g.ScoreLabel(board.O), snap.Scores.WinsO, inProgress && snap.Active == board.O),
	)
}

func (s *LocalState) renderHistory() string {
	h := s.Session.History()
	if h.Sessions == 0 {
		return dimStyle.Render("This is your first session. Good luck!")
	}
	vs := h.Mode(state.VersusComputer.String())
	return dimStyle.Render(fmt.Sprintf("Previous sessions: %d | vs computer: %d won, %d lost, %d tied",
		h.Sessions, vs.WinsX, vs.WinsO, vs.Ties))
}

func (s *LocalState) View() string {
	snap := s.displaySnapshot()

	mode := "Versus computer"
	if snap.Mode == state.VersusHuman {
		mode = "Two players"
	}

	sections := []string{
		titleStyle.Render("TIC-TAC-TOE") + "  " + dimStyle.Render(mode),
		"",
		s.renderScores(snap),
		"",
		s.RenderBoard(snap),
		"",
		statusStyle.Render(s.status()),
		"",
		s.renderHistory(),
		s.Help.View(s.Keys),
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(sections, "\n"))
}

// finalSummary is printed after the program exits.
func finalSummary(sess *game.Session) string {
	snap := sess.Snapshot()
	return fmt.Sprintf("Rounds played: %d | X: %d | O: %d | Ties: %d",
		sess.Played(), snap.Scores.WinsX, snap.Scores.WinsO, snap.Scores.Ties)
}
