package engine

import (
	"errors"
	"math/rand"
	"time"

	"go-ttt/internal/board"
)

// ErrNoMoveAvailable is returned by SelectMove when every cell is taken.
// Callers are expected to have seen a Tie from CheckTerminal first.
var ErrNoMoveAvailable = errors.New("no move available: board is full")

// Result classifies a board position.
type Result int

const (
	None Result = iota
	Win
	Tie
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Tie:
		return "tie"
	default:
		return "none"
	}
}

// Outcome is the terminal status of a board. Winner and Line are only set
// when Result is Win.
type Outcome struct {
	Result Result
	Winner board.Mark
	Line   [3]int
}

// CheckWin reports whether m fills any row, column or diagonal.
func CheckWin(b board.Board, m board.Mark) bool {
	_, ok := winningLine(b, m)
	return ok
}

// CheckTerminal reports whether the board is won, tied or still open.
// Lines are scanned in board.Lines order and the first complete line decides
// the winner, so a win is reported even on a full board.
func CheckTerminal(b board.Board) Outcome {
	for _, line := range board.Lines {
		m := b[line[0]]
		if m != board.Empty && b[line[1]] == m && b[line[2]] == m {
			return Outcome{Result: Win, Winner: m, Line: line}
		}
	}
	if b.Full() {
		return Outcome{Result: Tie}
	}
	return Outcome{Result: None}
}

func winningLine(b board.Board, m board.Mark) ([3]int, bool) {
	if m == board.Empty {
		return [3]int{}, false
	}
	for _, line := range board.Lines {
		if b[line[0]] == m && b[line[1]] == m && b[line[2]] == m {
			return line, true
		}
	}
	return [3]int{}, false
}

// Engine picks moves for the computer player. It holds no game state, only
// the random source used to break ties between equally ranked cells.
type Engine struct {
	rng *rand.Rand
}

// New returns an engine drawing from src. A nil src is seeded from the clock.
func New(src rand.Source) *Engine {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Engine{rng: rand.New(src)}
}

// NewSeeded returns an engine whose random choices are fully determined by seed.
func NewSeeded(seed int64) *Engine {
	return New(rand.NewSource(seed))
}

// SelectMove returns the cell the computer plays. The rules are tried in
// order and the first one that applies wins:
//
//  1. complete a line for computer
//  2. block a line the human would complete next move
//  3. take the center
//  4. take a random free corner
//  5. take a random free cell
//
// Only one ply is examined, so forks are not anticipated.
func (e *Engine) SelectMove(b board.Board, computer, human board.Mark) (int, error) {
	if i, ok := completingMove(b, computer); ok {
		return i, nil
	}
	if i, ok := completingMove(b, human); ok {
		return i, nil
	}
	if b.IsEmpty(board.Center) {
		return board.Center, nil
	}

	corners := make([]int, 0, len(board.Corners))
	for _, i := range board.Corners {
		if b.IsEmpty(i) {
			corners = append(corners, i)
		}
	}
	if len(corners) > 0 {
		return corners[e.rng.Intn(len(corners))], nil
	}

	free := b.EmptyCells()
	if len(free) == 0 {
		return -1, ErrNoMoveAvailable
	}
	return free[e.rng.Intn(len(free))], nil
}

// completingMove finds the lowest empty index where placing m wins.
// b is a copy, so the trial placement never leaks to the caller.
func completingMove(b board.Board, m board.Mark) (int, bool) {
	for i := range b {
		if b[i] != board.Empty {
			continue
		}
		b[i] = m
		won := CheckWin(b, m)
		b[i] = board.Empty
		if won {
			return i, true
		}
	}
	return -1, false
}
