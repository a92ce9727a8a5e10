package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go-ttt/internal/board"
	"go-ttt/internal/engine"
	"go-ttt/internal/scoring"

	"github.com/looplab/fsm"
)

// HumanMark always opens the round; ComputerMark is the engine's side in
// VersusComputer mode and the second player otherwise.
const (
	HumanMark    = board.X
	ComputerMark = board.O
)

// Mode selects who drives the O mark.
type Mode int

const (
	VersusComputer Mode = iota
	VersusHuman
)

// ErrUnknownMode is returned by ParseMode for tokens outside the fixed set.
var ErrUnknownMode = errors.New("unknown mode")

func (m Mode) String() string {
	switch m {
	case VersusComputer:
		return "ai"
	case VersusHuman:
		return "multiplayer"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m Mode) valid() bool {
	return m == VersusComputer || m == VersusHuman
}

// ParseMode maps an input token to a Mode.
func ParseMode(token string) (Mode, error) {
	switch token {
	case "ai", "computer":
		return VersusComputer, nil
	case "multiplayer", "human", "pvp":
		return VersusHuman, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, token)
}

// Phase is the round status. Only InProgress accepts moves.
type Phase int

const (
	InProgress Phase = iota
	Won
	Tied
)

func (p Phase) String() string {
	switch p {
	case Won:
		return "won"
	case Tied:
		return "tied"
	default:
		return "in progress"
	}
}

// fsm state and event names
const (
	stateInProgress = "inProgress"
	stateWon        = "won"
	stateTied       = "tied"

	eventWin   = "win"
	eventTie   = "tie"
	eventReset = "reset"
)

// Move is a single placed mark.
type Move struct {
	Index int
	Mark  board.Mark
}

// Snapshot is a read-only copy of everything the presentation layer renders.
type Snapshot struct {
	Board     board.Board
	Active    board.Mark
	Phase     Phase
	Winner    board.Mark
	WinLine   [3]int
	Mode      Mode
	Scores    scoring.ScoreBoard
	Round     int
	LastMoves []Move
}

// Observer is notified with a fresh snapshot after every command that
// changed state.
type Observer func(Snapshot)

// State owns the board, the turn, the round phase, the mode and the
// scoreboard. It is the only place any of them change.
type State struct {
	board     board.Board
	active    board.Mark
	mode      Mode
	scores    scoring.ScoreBoard
	outcome   engine.Outcome
	round     int
	lastMoves []Move

	fsm       *fsm.FSM
	engine    *engine.Engine
	logger    *slog.Logger
	observers []Observer
}

// NewState starts the first round in the given mode. eng picks the
// computer's moves; a nil logger discards output.
func NewState(eng *engine.Engine, mode Mode, logger *slog.Logger) *State {
	if eng == nil {
		eng = engine.New(nil)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !mode.valid() {
		mode = VersusComputer
	}

	s := &State{
		active: HumanMark,
		mode:   mode,
		round:  1,
		engine: eng,
		logger: logger.With("component", "state"),
	}

	s.fsm = fsm.NewFSM(
		stateInProgress,
		getPhaseTransitions(),
		getPhaseCallbacks(s),
	)

	return s
}

func getPhaseTransitions() fsm.Events {
	return fsm.Events{
		{Name: eventWin, Src: []string{stateInProgress}, Dst: stateWon},
		{Name: eventTie, Src: []string{stateInProgress}, Dst: stateTied},
		{Name: eventReset, Src: []string{stateWon, stateTied}, Dst: stateInProgress},
	}
}

// The enter callbacks only run on an actual transition out of inProgress,
// which is what makes recordOutcome fire once per round.
func getPhaseCallbacks(s *State) fsm.Callbacks {
	record := func(_ context.Context, e *fsm.Event) {
		if len(e.Args) == 0 {
			return
		}
		if outcome, ok := e.Args[0].(engine.Outcome); ok {
			s.recordOutcome(outcome)
		}
	}
	return fsm.Callbacks{
		"enter_" + stateWon:  record,
		"enter_" + stateTied: record,
	}
}

// ApplyMove places the active player's mark at index and, in
// VersusComputer mode, lets the engine answer before returning. It returns
// the moves applied in order, or nil when the move was rejected: the round
// is over, index is out of range or taken, or it is the computer's turn.
func (s *State) ApplyMove(index int) []Move {
	if !s.acceptsMove(index) {
		s.logger.Debug("move rejected", "index", index, "phase", s.Phase().String(), "active", s.active.String())
		return nil
	}

	var moves []Move
	for {
		s.board[index] = s.active
		moves = append(moves, Move{Index: index, Mark: s.active})
		s.logger.Debug("move applied", "index", index, "mark", s.active.String(), "round", s.round)

		if outcome := engine.CheckTerminal(s.board); outcome.Result != engine.None {
			s.finish(outcome)
			break
		}

		s.active = s.active.Opponent()
		if !s.computerToMove() {
			break
		}

		next, err := s.engine.SelectMove(s.board, ComputerMark, HumanMark)
		if err != nil {
			s.logger.Error("computer could not move", "error", err, "board", s.board.String())
			break
		}
		index = next
	}

	s.lastMoves = moves
	s.notify()
	return moves
}

func (s *State) acceptsMove(index int) bool {
	return s.Phase() == InProgress &&
		s.board.IsEmpty(index) &&
		!s.computerToMove()
}

func (s *State) computerToMove() bool {
	return s.mode == VersusComputer && s.active == ComputerMark
}

// finish moves the fsm to the terminal phase matching outcome.
func (s *State) finish(outcome engine.Outcome) {
	event := eventTie
	if outcome.Result == engine.Win {
		event = eventWin
	}
	if err := s.fsm.Event(context.Background(), event, outcome); err != nil {
		s.logger.Warn("duplicate terminal event ignored", "event", event, "error", err)
	}
}

// recordOutcome updates the scoreboard for a finished round.
func (s *State) recordOutcome(outcome engine.Outcome) {
	s.outcome = outcome
	switch outcome.Result {
	case engine.Win:
		s.scores.RecordWin(outcome.Winner)
	case engine.Tie:
		s.scores.RecordTie()
	}
	s.logger.Info("round finished",
		"round", s.round,
		"result", outcome.Result.String(),
		"winner", outcome.Winner.String(),
		"mode", s.mode.String(),
	)
}

// SwitchMode changes the mode and starts a new round. Scores are kept.
func (s *State) SwitchMode(mode Mode) {
	if !mode.valid() {
		s.logger.Debug("mode switch rejected", "mode", mode.String())
		return
	}
	s.mode = mode
	s.resetRound()
	s.logger.Info("mode switched", "mode", mode.String())
	s.notify()
}

// ResetRound clears the board and gives the first move to HumanMark.
func (s *State) ResetRound() {
	s.resetRound()
	s.notify()
}

// ResetScores zeroes the scoreboard and starts a new round.
func (s *State) ResetScores() {
	s.scores.Reset()
	s.resetRound()
	s.logger.Info("scores reset")
	s.notify()
}

func (s *State) resetRound() {
	if !s.fsm.Is(stateInProgress) {
		if err := s.fsm.Event(context.Background(), eventReset); err != nil {
			s.logger.Error("could not reset phase", "error", err)
			s.fsm.SetState(stateInProgress)
		}
	}
	s.board = board.Board{}
	s.active = HumanMark
	s.outcome = engine.Outcome{}
	s.lastMoves = nil
	s.round++
}

// Subscribe registers o to be called after every state change.
func (s *State) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *State) notify() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, o := range s.observers {
		o(snap)
	}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	moves := make([]Move, len(s.lastMoves))
	copy(moves, s.lastMoves)
	return Snapshot{
		Board:     s.board,
		Active:    s.active,
		Phase:     s.Phase(),
		Winner:    s.outcome.Winner,
		WinLine:   s.outcome.Line,
		Mode:      s.mode,
		Scores:    s.scores,
		Round:     s.round,
		LastMoves: moves,
	}
}

func (s *State) Board() board.Board         { return s.board }
func (s *State) Active() board.Mark         { return s.active }
func (s *State) Mode() Mode                 { return s.mode }
func (s *State) Scores() scoring.ScoreBoard { return s.scores }
func (s *State) Outcome() engine.Outcome    { return s.outcome }
func (s *State) Round() int                 { return s.round }

// Phase reports the round status from the fsm.
func (s *State) Phase() Phase {
	switch s.fsm.Current() {
	case stateWon:
		return Won
	case stateTied:
		return Tied
	default:
		return InProgress
	}
}
