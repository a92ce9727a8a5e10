package game

import (
	"log/slog"

	"go-ttt/internal/board"
	"go-ttt/internal/engine"
	"go-ttt/internal/state"
)

// Game maps input events onto the state's commands, independent of the UI.
type Game struct {
	State *state.State
}

// NewGame initializes a new game instance.
func NewGame(eng *engine.Engine, mode state.Mode, logger *slog.Logger) *Game {
	return &Game{
		State: state.NewState(eng, mode, logger),
	}
}

// HandleCell processes a click or key press on a cell.
func (g *Game) HandleCell(index int) []state.Move {
	return g.State.ApplyMove(index)
}

// HandleMode processes a mode token from the input layer.
func (g *Game) HandleMode(token string) error {
	mode, err := state.ParseMode(token)
	if err != nil {
		return err
	}
	g.State.SwitchMode(mode)
	return nil
}

// Status returns the line shown under the board.
func (g *Game) Status() string {
	snap := g.State.Snapshot()
	vsComputer := snap.Mode == state.VersusComputer

	switch snap.Phase {
	case state.Won:
		if !vsComputer {
			return "Player " + snap.Winner.String() + " wins!"
		}
		if snap.Winner == state.HumanMark {
			return "You win!"
		}
		return "AI wins!"
	case state.Tied:
		return "It's a tie!"
	}

	if vsComputer {
		if snap.Active == state.ComputerMark {
			return "AI thinking..."
		}
		return "Your turn"
	}
	if snap.Active == board.X {
		return "Player 1's turn"
	}
	return "Player 2's turn"
}

// ScoreLabel names the scoreboard column for m in the current mode.
func (g *Game) ScoreLabel(m board.Mark) string {
	switch m {
	case board.X:
		if g.State.Mode() == state.VersusComputer {
			return "You (X)"
		}
		return "Player 1 (X)"
	case board.O:
		if g.State.Mode() == state.VersusComputer {
			return "Computer (O)"
		}
		return "Player 2 (O)"
	default:
		return "Ties"
	}
}
