package tier

import "errors"

var ErrInvalidTable = errors.New("invalid tier table")

// Definition is one rung of the ladder. Zero MinGames or MinWinRate means the
// threshold is not set.
type Definition struct {
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	MinPoints  int     `json:"min_points"`
	MinGames   int     `json:"min_games"`
	MinWinRate float64 `json:"min_win_rate"`
}

// Progress describes where a player stands relative to the next tier. Next
// is nil once the top tier is reached.
type Progress struct {
	Current      Definition  `json:"current"`
	Next         *Definition `json:"next,omitempty"`
	Percent      float64     `json:"percent"`
	Requirements []string    `json:"requirements"`
}

// Record is the aggregate a tier is derived from.
type Record struct {
	Points int
	Wins   int
	Losses int
}

func (r Record) Games() int {
	return r.Wins + r.Losses
}

func (r Record) WinRate() float64 {
	if r.Games() == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games())
}

// DefaultTable is the club ladder.
func DefaultTable() []Definition {
	return []Definition{
		{Name: "Bronze", Color: "#CD7F32"},
		{Name: "Silver", Color: "#C0C0C0", MinPoints: 100, MinGames: 5},
		{Name: "Gold", Color: "#FFD700", MinPoints: 300, MinGames: 15, MinWinRate: 0.40},
		{Name: "Platinum", Color: "#E5E4E2", MinPoints: 600, MinGames: 30, MinWinRate: 0.50},
		{Name: "Diamond", Color: "#B9F2FF", MinPoints: 1000, MinGames: 50, MinWinRate: 0.55},
		{Name: "Champion", Color: "#9B30FF", MinPoints: 1500, MinGames: 80, MinWinRate: 0.60},
	}
}
