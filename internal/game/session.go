package game

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"go-ttt/internal/engine"
	"go-ttt/internal/scoring"
	"go-ttt/internal/state"

	"github.com/google/uuid"
)

// Default pauses before a finished round is cleared.
const (
	DefaultWinResetDelay = 3 * time.Second
	DefaultTieResetDelay = 2 * time.Second
)

// Options configures a session.
type Options struct {
	Mode          state.Mode
	Seed          int64 // 0 seeds the engine from the clock
	WinResetDelay time.Duration
	TieResetDelay time.Duration
}

// Session is one sitting: a single Game whose scoreboard accumulates over
// rounds, plus the bookkeeping persisted when the session ends.
type Session struct {
	ID          string
	StartedAt   time.Time
	CurrentGame *Game
	Options     Options

	storage scoring.HistoryStorage
	history scoring.Totals
	logger  *slog.Logger

	// Finished rounds in this session, including ones whose scores were reset.
	played      int
	lastCounted int
	closed      bool
}

// NewSession builds a session and loads previous session history. storage
// may be nil, in which case nothing is loaded or saved.
func NewSession(opts Options, storage scoring.HistoryStorage, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.WinResetDelay <= 0 {
		opts.WinResetDelay = DefaultWinResetDelay
	}
	if opts.TieResetDelay <= 0 {
		opts.TieResetDelay = DefaultTieResetDelay
	}

	s := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Options:   opts,
		storage:   storage,
		history:   scoring.Summarize(nil),
	}
	s.logger = logger.With("component", "session", "session", s.ID)

	if storage != nil {
		records, err := storage.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("could not load session history: %w", err)
		}
		s.history = scoring.Summarize(records)
	}

	var eng *engine.Engine
	if opts.Seed != 0 {
		eng = engine.NewSeeded(opts.Seed)
	} else {
		eng = engine.New(nil)
	}

	s.CurrentGame = NewGame(eng, opts.Mode, logger)
	s.CurrentGame.State.Subscribe(s.observe)

	s.logger.Info("session started", "mode", opts.Mode.String(), "previous_sessions", s.history.Sessions)
	return s, nil
}

func (s *Session) observe(snap state.Snapshot) {
	if snap.Phase == state.InProgress || snap.Round == s.lastCounted {
		return
	}
	s.lastCounted = snap.Round
	s.played++
}

// Move requests a move at cell index.
func (s *Session) Move(index int) []state.Move {
	return s.CurrentGame.HandleCell(index)
}

// SwitchMode changes the mode and starts a new round.
func (s *Session) SwitchMode(mode state.Mode) {
	s.CurrentGame.State.SwitchMode(mode)
}

// NewRound abandons the current round.
func (s *Session) NewRound() {
	s.CurrentGame.State.ResetRound()
}

// ResetScores zeroes the scoreboard and starts a new round.
func (s *Session) ResetScores() {
	s.CurrentGame.State.ResetScores()
}

// Snapshot returns the current game state.
func (s *Session) Snapshot() state.Snapshot {
	return s.CurrentGame.State.Snapshot()
}

// Played returns the number of rounds finished in this session.
func (s *Session) Played() int {
	return s.played
}

// History returns totals of previous sessions loaded at start.
func (s *Session) History() scoring.Totals {
	return s.history
}

// ResetDelay reports how long a finished round stays on screen. ok is
// false while the round is still in progress.
func (s *Session) ResetDelay() (time.Duration, bool) {
	switch s.CurrentGame.State.Phase() {
	case state.Won:
		return s.Options.WinResetDelay, true
	case state.Tied:
		return s.Options.TieResetDelay, true
	default:
		return 0, false
	}
}

// AutoReset starts a new round if round is still the current one and it
// has finished. Timers scheduled for an earlier round are ignored.
func (s *Session) AutoReset(round int) bool {
	st := s.CurrentGame.State
	if st.Round() != round || st.Phase() == state.InProgress {
		return false
	}
	st.ResetRound()
	return true
}

// Close stores the session summary. Sessions without a finished round are
// not recorded. Calling Close more than once has no effect.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.storage == nil || s.played == 0 {
		return nil
	}

	st := s.CurrentGame.State
	record := scoring.NewSessionRecord(s.ID, st.Mode().String(), st.Scores(), s.played, s.StartedAt, time.Now())
	if err := s.storage.Append(record); err != nil {
		return fmt.Errorf("could not save session: %w", err)
	}
	s.logger.Info("session saved", "played", s.played, "wins_x", record.WinsX, "wins_o", record.WinsO, "ties", record.Ties)
	return nil
}
