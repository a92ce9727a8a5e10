package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go-ttt/internal/board"
	"go-ttt/internal/config"
	"go-ttt/internal/game"
	"go-ttt/internal/scoring"
	"go-ttt/internal/state"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type LocalState struct {
	Session       *game.Session
	Cursor        int
	Keys          keyMap
	Help          help.Model
	ComputerDelay time.Duration

	// hidden is the computer's last move while its reveal is pending, -1
	// otherwise. The move is already applied; only the view waits.
	hidden    int
	revealSeq int
}

// revealMsg ends the computer's thinking delay for the move scheduled under seq.
type revealMsg struct{ seq int }

// resetMsg clears a finished round, if round is still current.
type resetMsg struct{ round int }

func initialModel(sess *game.Session, computerDelay time.Duration) *LocalState {
	return &LocalState{
		Session:       sess,
		Cursor:        board.Center,
		Keys:          defaultKeyMap(),
		Help:          help.New(),
		ComputerDelay: computerDelay,
		hidden:        -1,
	}
}

func (s *LocalState) Init() tea.Cmd {
	return nil
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.Help.Width = msg.Width
	case revealMsg:
		if msg.seq != s.revealSeq || s.hidden < 0 {
			return s, nil
		}
		s.hidden = -1
		return s, s.scheduleReset()
	case resetMsg:
		if s.Session.AutoReset(msg.round) {
			s.cancelReveal()
		}
	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	return s, nil
}

func (s *LocalState) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.Keys.Quit):
		return tea.Quit
	case key.Matches(msg, s.Keys.Help):
		s.Help.ShowAll = !s.Help.ShowAll
	case key.Matches(msg, s.Keys.Up):
		s.moveCursor(-3)
	case key.Matches(msg, s.Keys.Down):
		s.moveCursor(3)
	case key.Matches(msg, s.Keys.Left):
		if s.Cursor%3 > 0 {
			s.Cursor--
		}
	case key.Matches(msg, s.Keys.Right):
		if s.Cursor%3 < 2 {
			s.Cursor++
		}
	case key.Matches(msg, s.Keys.Place):
		return s.place(s.Cursor)
	case key.Matches(msg, s.Keys.Cell):
		index := int(msg.Runes[0] - '1')
		s.Cursor = index
		return s.place(index)
	case key.Matches(msg, s.Keys.VsComputer):
		s.cancelReveal()
		s.Session.SwitchMode(state.VersusComputer)
	case key.Matches(msg, s.Keys.VsHuman):
		s.cancelReveal()
		s.Session.SwitchMode(state.VersusHuman)
	case key.Matches(msg, s.Keys.NewRound):
		s.cancelReveal()
		s.Session.NewRound()
	case key.Matches(msg, s.Keys.ResetScores):
		s.cancelReveal()
		s.Session.ResetScores()
	}
	return nil
}

func (s *LocalState) moveCursor(delta int) {
	if board.InRange(s.Cursor + delta) {
		s.Cursor += delta
	}
}

// place forwards a human move. Input is ignored while the computer is
// shown as thinking, the same way a click on the computer's turn is.
func (s *LocalState) place(index int) tea.Cmd {
	if s.hidden >= 0 {
		return nil
	}
	moves := s.Session.Move(index)
	if len(moves) == 0 {
		return nil
	}

	if len(moves) > 1 && s.ComputerDelay > 0 {
		s.hidden = moves[len(moves)-1].Index
		s.revealSeq++
		seq := s.revealSeq
		return tea.Tick(s.ComputerDelay, func(time.Time) tea.Msg {
			return revealMsg{seq: seq}
		})
	}
	return s.scheduleReset()
}

func (s *LocalState) cancelReveal() {
	s.hidden = -1
	s.revealSeq++
}

func (s *LocalState) scheduleReset() tea.Cmd {
	delay, ok := s.Session.ResetDelay()
	if !ok {
		return nil
	}
	round := s.Session.Snapshot().Round
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return resetMsg{round: round}
	})
}

// initialize logger. Bubbletea owns the terminal, so logs only go to a file.
func initLogger(conf *config.Config) (*slog.Logger, func(), error) {
	if conf.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	f, err := tea.LogToFile(conf.LogFile, "go-ttt")
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: conf.SlogLevel()}))
	return logger, func() { f.Close() }, nil
}

func initStorage(conf *config.Config) (scoring.HistoryStorage, error) {
	if conf.History.Disabled {
		return nil, nil
	}
	storage, err := scoring.NewJSONFileStorage(conf.History.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create history storage: %w", err)
	}
	return storage, nil
}

func main() {
	var (
		configPath string
		modeFlag   string
		seed       int64
		noHistory  bool
	)

	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&configPath, "c", "", "Path to a YAML config file (shorthand)")
	flag.StringVar(&modeFlag, "mode", "", "Starting mode: ai or multiplayer")
	flag.StringVar(&modeFlag, "m", "", "Starting mode (shorthand)")
	flag.Int64Var(&seed, "seed", 0, "Seed for the computer player, 0 for random")
	flag.BoolVar(&noHistory, "no-history", false, "Do not record this session")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fmt.Fprintf(os.Stderr, "   -c, --config=PATH       Read settings from a YAML file\n")
		fmt.Fprintf(os.Stderr, "   -m, --mode=MODE         Starting mode: ai or multiplayer\n")
		fmt.Fprintf(os.Stderr, "       --seed=N            Seed for the computer player\n")
		fmt.Fprintf(os.Stderr, "       --no-history        Do not record this session\n")
		fmt.Fprintf(os.Stderr, "   -h, --help              Show this help message\n")
		fmt.Fprintf(os.Stderr, "\n%s", config.Usage())
	}

	flag.Parse()

	conf, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if modeFlag != "" {
		conf.Mode = modeFlag
	}
	if seed != 0 {
		conf.Seed = seed
	}
	if noHistory {
		conf.History.Disabled = true
	}

	mode, err := state.ParseMode(conf.Mode)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := initLogger(conf)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	storage, err := initStorage(conf)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	sess, err := game.NewSession(game.Options{
		Mode:          mode,
		Seed:          conf.Seed,
		WinResetDelay: conf.Timing.WinReset,
		TieResetDelay: conf.Timing.TieReset,
	}, storage, logger)
	if err != nil {
		fmt.Printf("Error starting session: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(sess, conf.Timing.ComputerDelay), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error starting the program: %v\n", err)
	}

	if err := sess.Close(); err != nil {
		logger.Error("could not save session", "error", err)
		fmt.Printf("Warning: %v\n", err)
	}

	fmt.Println(finalSummary(sess))
}
