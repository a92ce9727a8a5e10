package scoring

import "go-ttt/internal/board"

// ScoreBoard counts finished rounds for one session. Counters only grow
// until Reset.
type ScoreBoard struct {
	WinsX int
	WinsO int
	Ties  int
}

// RecordWin credits a round to winner. Empty is ignored.
func (s *ScoreBoard) RecordWin(winner board.Mark) {
	switch winner {
	case board.X:
		s.WinsX++
	case board.O:
		s.WinsO++
	}
}

// RecordTie counts a drawn round.
func (s *ScoreBoard) RecordTie() {
	s.Ties++
}

// Reset zeroes every counter.
func (s *ScoreBoard) Reset() {
	*s = ScoreBoard{}
}

// Rounds returns the number of finished rounds.
func (s ScoreBoard) Rounds() int {
	return s.WinsX + s.WinsO + s.Ties
}

// Wins returns the counter for m.
func (s ScoreBoard) Wins(m board.Mark) int {
	switch m {
	case board.X:
		return s.WinsX
	case board.O:
		return s.WinsO
	default:
		return 0
	}
}
