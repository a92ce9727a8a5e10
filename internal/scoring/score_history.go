package scoring

import "time"

// SessionRecord is the persisted summary of one play session.
type SessionRecord struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	WinsX     int       `json:"wins_x"`
	WinsO     int       `json:"wins_o"`
	Ties      int       `json:"ties"`
	Played    int       `json:"played"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// NewSessionRecord captures the final scoreboard of a session. played counts
// every finished round, including rounds whose scores were reset since.
func NewSessionRecord(id, mode string, sb ScoreBoard, played int, started, ended time.Time) SessionRecord {
	return SessionRecord{
		ID:        id,
		Mode:      mode,
		WinsX:     sb.WinsX,
		WinsO:     sb.WinsO,
		Ties:      sb.Ties,
		Played:    played,
		StartedAt: started,
		EndedAt:   ended,
	}
}

// Rounds returns how many rounds are on the final scoreboard.
func (r SessionRecord) Rounds() int {
	return r.WinsX + r.WinsO + r.Ties
}

// Totals aggregates previous sessions, per mode token.
type Totals struct {
	Sessions int
	Played   int
	ByMode   map[string]ScoreBoard
}

// Summarize folds records into Totals.
func Summarize(records []SessionRecord) Totals {
	t := Totals{ByMode: make(map[string]ScoreBoard)}
	for _, r := range records {
		t.Sessions++
		t.Played += r.Played
		sb := t.ByMode[r.Mode]
		sb.WinsX += r.WinsX
		sb.WinsO += r.WinsO
		sb.Ties += r.Ties
		t.ByMode[r.Mode] = sb
	}
	return t
}

// Mode returns the aggregated scoreboard for one mode token.
func (t Totals) Mode(mode string) ScoreBoard {
	return t.ByMode[mode]
}
