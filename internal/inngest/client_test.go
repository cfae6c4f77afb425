package inngest

import (
	"errors"
	"testing"

	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecalculator struct {
	changes []notifier.TierChange
	err     error
	gotIDs  []string
	gotDry  bool
}

func (f *fakeRecalculator) RecalculateTiers(playerIDs []string, dryRun bool) ([]notifier.TierChange, error) {
	f.gotIDs = playerIDs
	f.gotDry = dryRun
	return f.changes, f.err
}

func TestRecalculate(t *testing.T) {
	fake := &fakeRecalculator{changes: []notifier.TierChange{
		{Player: club.Player{ID: "p1"}, Promoted: true},
		{Player: club.Player{ID: "p3"}},
	}}

	result, err := recalculate(fake, RecalculateTiersData{MatchID: "m1", PlayerIDs: []string{"p1", "p2", "p3"}, DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p2", "p3"}, fake.gotIDs)
	assert.True(t, fake.gotDry)
	assert.Equal(t, RecalculateTiersResult{
		MatchID:  "m1",
		Checked:  3,
		Promoted: []string{"p1"},
		Demoted:  []string{"p3"},
	}, result)
}

func TestRecalculate_NoChanges(t *testing.T) {
	result, err := recalculate(&fakeRecalculator{}, RecalculateTiersData{MatchID: "m1", PlayerIDs: []string{"p1"}})
	require.NoError(t, err)
	assert.Empty(t, result.Promoted)
	assert.Empty(t, result.Demoted)
}

func TestRecalculate_Error(t *testing.T) {
	fake := &fakeRecalculator{err: club.ErrPlayerNotFound}
	_, err := recalculate(fake, RecalculateTiersData{MatchID: "m9", PlayerIDs: []string{"ghost"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, club.ErrPlayerNotFound))
	assert.Contains(t, err.Error(), "m9")
}
