package tier_test

import (
	"testing"

	"github.com/mauv0809/courtside/internal/tier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c := tier.Default()

	tests := []struct {
		name                 string
		points, wins, losses int
		want                 string
	}{
		{"new player", 0, 0, 0, "Bronze"},
		{"silver boundary", 100, 5, 0, "Silver"},
		{"silver missing games", 100, 4, 0, "Bronze"},
		{"gold boundary", 300, 6, 9, "Gold"},
		{"gold blocked by win rate", 700, 10, 20, "Silver"},
		{"champion", 2000, 60, 20, "Champion"},
		{"points without games", 5000, 0, 0, "Bronze"},
		{"negative inputs clamp", -50, -3, -1, "Bronze"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.points, tt.wins, tt.losses).Name)
		})
	}
}

func TestClassifyMonotonic(t *testing.T) {
	c := tier.Default()

	t.Run("points", func(t *testing.T) {
		for _, rec := range [][2]int{{0, 0}, {10, 10}, {40, 30}, {90, 10}} {
			last := -1
			for points := 0; points <= 2000; points += 25 {
				rank := c.Rank(c.Classify(points, rec[0], rec[1]).Name)
				assert.GreaterOrEqual(t, rank, last, "points=%d record=%v", points, rec)
				last = rank
			}
		}
	})

	t.Run("win rate", func(t *testing.T) {
		for _, points := range []int{0, 350, 800, 1600} {
			last := -1
			for wins := 0; wins <= 100; wins++ {
				rank := c.Rank(c.Classify(points, wins, 100-wins).Name)
				assert.GreaterOrEqual(t, rank, last, "points=%d wins=%d", points, wins)
				last = rank
			}
		}
	})
}

func TestProgress(t *testing.T) {
	c := tier.Default()

	t.Run("new player", func(t *testing.T) {
		p := c.Progress(0, 0, 0)
		assert.Equal(t, "Bronze", p.Current.Name)
		require.NotNil(t, p.Next)
		assert.Equal(t, "Silver", p.Next.Name)
		assert.Equal(t, 0.0, p.Percent)
		assert.Equal(t, []string{"need 100 more points", "need 5 more games"}, p.Requirements)
	})

	t.Run("points are the bottleneck", func(t *testing.T) {
		p := c.Progress(150, 4, 6)
		assert.Equal(t, "Silver", p.Current.Name)
		assert.Equal(t, "Gold", p.Next.Name)
		assert.InDelta(t, 50.0, p.Percent, 1e-9)
		assert.Equal(t, []string{"need 150 more points", "need 5 more games"}, p.Requirements)
	})

	t.Run("win rate is the bottleneck", func(t *testing.T) {
		p := c.Progress(700, 10, 20)
		assert.Equal(t, "Silver", p.Current.Name)
		assert.InDelta(t, 83.333, p.Percent, 1e-3)
		assert.Equal(t, []string{"need 4 more consecutive wins to reach a 40% win rate"}, p.Requirements)
	})

	t.Run("ceiling", func(t *testing.T) {
		p := c.Progress(2000, 60, 20)
		assert.Equal(t, "Champion", p.Current.Name)
		assert.Nil(t, p.Next)
		assert.Equal(t, 100.0, p.Percent)
		assert.Empty(t, p.Requirements)
	})

	t.Run("never above any ratio", func(t *testing.T) {
		capped := func(have, want float64) float64 {
			if want <= 0 {
				return 100
			}
			return min(100, have/want*100)
		}
		for points := 0; points <= 1600; points += 100 {
			for wins := 0; wins <= 60; wins += 10 {
				for _, losses := range []int{0, 5, 20, 60} {
					p := c.Progress(points, wins, losses)
					if p.Next == nil {
						continue
					}
					games := wins + losses
					winRate := 0.0
					if games > 0 {
						winRate = float64(wins) / float64(games)
					}
					pointsRatio := capped(float64(points), float64(p.Next.MinPoints))
					gamesRatio := capped(float64(games), float64(p.Next.MinGames))
					winRateRatio := capped(winRate, p.Next.MinWinRate)

					assert.LessOrEqual(t, p.Percent, pointsRatio+1e-9)
					assert.LessOrEqual(t, p.Percent, gamesRatio+1e-9)
					assert.LessOrEqual(t, p.Percent, winRateRatio+1e-9)
					assert.InDelta(t, min(pointsRatio, gamesRatio, winRateRatio), p.Percent, 1e-9,
						"points=%d wins=%d losses=%d", points, wins, losses)
				}
			}
		}
	})
}

func TestProgressUnreachableWinRate(t *testing.T) {
	c, err := tier.New([]tier.Definition{
		{Name: "Open"},
		{Name: "Perfect", MinPoints: 10, MinWinRate: 1},
	})
	require.NoError(t, err)

	p := c.Progress(20, 3, 1)
	assert.Equal(t, "Open", p.Current.Name)
	assert.InDelta(t, 75.0, p.Percent, 1e-9)
	assert.Equal(t, []string{"win rate 75.0% of 100.0% required"}, p.Requirements)
}

func TestWinsNeeded(t *testing.T) {
	assert.Equal(t, 2, tier.WinsNeeded(2, 6, 0.5))
	assert.Equal(t, 4, tier.WinsNeeded(10, 30, 0.4))
	assert.Equal(t, 3, tier.WinsNeeded(10, 20, 0.55))
	assert.Equal(t, 0, tier.WinsNeeded(8, 10, 0.5))
	assert.Equal(t, 0, tier.WinsNeeded(0, 10, 1))
}

func TestNewRejectsBadTables(t *testing.T) {
	tables := map[string][]tier.Definition{
		"empty":           {},
		"nonzero first":   {{Name: "A", MinPoints: 5}},
		"unnamed":         {{Name: "A"}, {MinPoints: 5}},
		"points not up":   {{Name: "A"}, {Name: "B", MinPoints: 10}, {Name: "C", MinPoints: 10}},
		"games go down":   {{Name: "A"}, {Name: "B", MinPoints: 10, MinGames: 5}, {Name: "C", MinPoints: 20, MinGames: 4}},
		"win rate too hi": {{Name: "A"}, {Name: "B", MinPoints: 10, MinWinRate: 1.5}},
		"duplicate":       {{Name: "A"}, {Name: "A", MinPoints: 10}},
	}
	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			_, err := tier.New(table)
			assert.ErrorIs(t, err, tier.ErrInvalidTable)
		})
	}

	_, err := tier.New(tier.DefaultTable())
	assert.NoError(t, err)
}
