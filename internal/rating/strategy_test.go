package rating_test

import (
	"testing"

	"github.com/mauv0809/courtside/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleStrategy(t *testing.T) {
	s := rating.NewSimpleStrategy(0)
	assert.Equal(t, rating.DefaultSinglesKFactor, s.KFactor)
	assert.True(t, s.SupportsDraws())

	up, err := s.Rate(rating.Singles, []float64{1400}, []float64{1000}, rating.Draw)
	require.NoError(t, err)
	assert.Equal(t, []int{-13}, up.ChangesA)
	assert.Equal(t, []int{13}, up.ChangesB)
	assert.Equal(t, "simple", up.Strategy)

	_, err = s.Rate(rating.Doubles, []float64{1200, 1200}, []float64{1200, 1200}, rating.Win)
	assert.ErrorIs(t, err, rating.ErrInvalidArgument)
}

func TestTeamAwareStrategy(t *testing.T) {
	s := rating.NewTeamAwareStrategy(32, 24)
	assert.False(t, s.SupportsDraws())

	t.Run("side A loses doubles", func(t *testing.T) {
		up, err := s.Rate(rating.MensDoubles, []float64{1200, 1200}, []float64{1300, 1100}, rating.Loss)
		require.NoError(t, err)
		assert.Equal(t, []int{-6, -6}, up.ChangesA)
		assert.Equal(t, []int{7, 6}, up.ChangesB)
		assert.Equal(t, 24.0, up.KFactor)
	})

	t.Run("singles uses singles k", func(t *testing.T) {
		up, err := s.Rate(rating.WomensSingles, []float64{1200}, []float64{1200}, rating.Win)
		require.NoError(t, err)
		assert.Equal(t, []int{16}, up.ChangesA)
		assert.Equal(t, 32.0, up.KFactor)
	})

	t.Run("draw rejected", func(t *testing.T) {
		_, err := s.Rate(rating.Singles, []float64{1200}, []float64{1200}, rating.Draw)
		assert.ErrorIs(t, err, rating.ErrDrawNotSupported)
		assert.ErrorIs(t, err, rating.ErrInvalidArgument)
	})
}

func TestStrategyFor(t *testing.T) {
	simple := rating.NewSimpleStrategy(32)
	team := rating.NewTeamAwareStrategy(32, 24)

	assert.Equal(t, "simple", rating.StrategyFor(rating.Singles, rating.Draw, simple, team).Name())
	assert.Equal(t, "team_aware", rating.StrategyFor(rating.Singles, rating.Win, simple, team).Name())
	assert.Equal(t, "team_aware", rating.StrategyFor(rating.Doubles, rating.Draw, simple, team).Name())
}
