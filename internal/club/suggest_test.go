package club

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestPlayers(t *testing.T) {
	players := []Player{
		{ID: "p1", Name: "Serena Williams"},
		{ID: "p2", Name: "Venus Williams"},
		{ID: "p3", Name: "Rafael Nadal"},
	}

	got := SuggestPlayers("serena", players, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "p1", got[0].Player.ID)

	got = SuggestPlayers("Rafa Nadal", players, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "p3", got[0].Player.ID)

	got = SuggestPlayers("Serena Wiliams", players, 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "p1", got[0].Player.ID)
	assert.Greater(t, got[0].Confidence, 0.8)

	assert.Empty(t, SuggestPlayers("zzz", players, 5))
	assert.Empty(t, SuggestPlayers("", players, 5))
	assert.Empty(t, SuggestPlayers("serena", players, 0))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein([]rune("nadal"), []rune("nadal")))
	assert.Equal(t, 3, levenshtein([]rune("kitten"), []rune("sitting")))
	assert.Equal(t, 4, levenshtein([]rune(""), []rune("rafa")))
	assert.Equal(t, 1, levenshtein([]rune("müller"), []rune("muller")))
}
