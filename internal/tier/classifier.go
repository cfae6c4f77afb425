package tier

import (
	"fmt"
	"math"
)

// Classifier maps a points and win/loss record onto an ordered tier table.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	table []Definition
}

// New validates table and returns a classifier over a copy of it.
func New(table []Definition) (*Classifier, error) {
	if err := Validate(table); err != nil {
		return nil, err
	}
	t := make([]Definition, len(table))
	copy(t, table)
	return &Classifier{table: t}, nil
}

// Default returns a classifier over DefaultTable.
func Default() *Classifier {
	c, err := New(DefaultTable())
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks that the table starts at zero and never gets easier.
func Validate(table []Definition) error {
	if len(table) == 0 {
		return fmt.Errorf("%w: no tiers", ErrInvalidTable)
	}
	first := table[0]
	if first.MinPoints != 0 || first.MinGames != 0 || first.MinWinRate != 0 {
		return fmt.Errorf("%w: first tier %q must have zero thresholds", ErrInvalidTable, first.Name)
	}
	seen := make(map[string]bool, len(table))
	for i, d := range table {
		if d.Name == "" {
			return fmt.Errorf("%w: tier %d has no name", ErrInvalidTable, i)
		}
		if seen[d.Name] {
			return fmt.Errorf("%w: duplicate tier %q", ErrInvalidTable, d.Name)
		}
		seen[d.Name] = true
		if d.MinWinRate < 0 || d.MinWinRate > 1 || math.IsNaN(d.MinWinRate) {
			return fmt.Errorf("%w: tier %q win rate %v outside [0,1]", ErrInvalidTable, d.Name, d.MinWinRate)
		}
		if i == 0 {
			continue
		}
		prev := table[i-1]
		if d.MinPoints <= prev.MinPoints {
			return fmt.Errorf("%w: tier %q points must exceed %q", ErrInvalidTable, d.Name, prev.Name)
		}
		if d.MinGames < prev.MinGames || d.MinWinRate < prev.MinWinRate {
			return fmt.Errorf("%w: tier %q is easier than %q", ErrInvalidTable, d.Name, prev.Name)
		}
	}
	return nil
}

// Table returns a copy of the tier table, lowest first.
func (c *Classifier) Table() []Definition {
	t := make([]Definition, len(c.table))
	copy(t, c.table)
	return t
}

// Rank returns the index of the named tier, or -1.
func (c *Classifier) Rank(name string) int {
	for i, d := range c.table {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// Classify returns the highest tier whose thresholds are all met. Thresholds
// are inclusive. Negative inputs count as zero.
func (c *Classifier) Classify(points, wins, losses int) Definition {
	return c.table[c.classify(newRecord(points, wins, losses))]
}

func (c *Classifier) classify(r Record) int {
	games, winRate := r.Games(), r.WinRate()
	for i := len(c.table) - 1; i >= 0; i-- {
		d := c.table[i]
		if r.Points >= d.MinPoints && games >= d.MinGames && (d.MinWinRate == 0 || winRate >= d.MinWinRate) {
			return i
		}
	}
	return 0
}

// Progress reports how far the record is toward the next tier. The slowest of
// the three thresholds sets the percentage.
func (c *Classifier) Progress(points, wins, losses int) Progress {
	r := newRecord(points, wins, losses)
	idx := c.classify(r)
	p := Progress{Current: c.table[idx], Requirements: []string{}}
	if idx == len(c.table)-1 {
		p.Percent = 100
		return p
	}
	next := c.table[idx+1]
	p.Next = &next

	games, winRate := r.Games(), r.WinRate()
	pointsRatio := ratio(float64(r.Points), float64(next.MinPoints))
	gamesRatio := ratio(float64(games), float64(next.MinGames))
	winRateRatio := ratio(winRate, next.MinWinRate)
	p.Percent = math.Min(pointsRatio, math.Min(gamesRatio, winRateRatio))

	if r.Points < next.MinPoints {
		p.Requirements = append(p.Requirements, fmt.Sprintf("need %d more points", next.MinPoints-r.Points))
	}
	if games < next.MinGames {
		p.Requirements = append(p.Requirements, fmt.Sprintf("need %d more games", next.MinGames-games))
	}
	if next.MinWinRate > 0 && winRate < next.MinWinRate {
		if n := WinsNeeded(r.Wins, games, next.MinWinRate); n > 0 {
			p.Requirements = append(p.Requirements, fmt.Sprintf("need %d more consecutive wins to reach a %.0f%% win rate", n, next.MinWinRate*100))
		} else {
			p.Requirements = append(p.Requirements, fmt.Sprintf("win rate %.1f%% of %.1f%% required", winRate*100, next.MinWinRate*100))
		}
	}
	return p
}

// WinsNeeded is the smallest number of straight wins, with losses held, that
// lifts the win rate to target. It returns 0 when target cannot be expressed
// as a count, which is the case for target >= 1.
func WinsNeeded(wins, games int, target float64) int {
	if target <= 0 || target >= 1 {
		return 0
	}
	n := (target*float64(games) - float64(wins)) / (1 - target)
	// absorb float noise so an exact count is not rounded up
	return int(math.Ceil(math.Max(0, n-1e-9)))
}

func ratio(have, want float64) float64 {
	if want <= 0 {
		return 100
	}
	return math.Min(100, have/want*100)
}

func newRecord(points, wins, losses int) Record {
	return Record{Points: max(points, 0), Wins: max(wins, 0), Losses: max(losses, 0)}
}
