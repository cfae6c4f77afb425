package metrics

import (
	"testing"

	"github.com/mauv0809/courtside/internal/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (MetricsStore, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	return New(db), teardown
}

func TestAddAndGetAll(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	totals, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, totals)

	require.NoError(t, store.Add(KeyMatchesImported, 3))
	require.NoError(t, store.Add(KeyMatchesImported, 2))
	require.NoError(t, store.Add(KeyTierPromotions, 1))
	require.NoError(t, store.Add(KeyMatchesFailed, 0))

	totals, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		KeyMatchesImported: 5,
		KeyTierPromotions:  1,
	}, totals)
}

func TestServiceMirrorsIntoStore(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	svc := NewService(prometheus.NewRegistry()).WithStore(store)
	svc.IncMatchesRated("singles")
	svc.IncMatchesRated("singles")
	svc.IncMatchesRated("mixed_doubles")
	svc.IncMatchesFailed()
	svc.IncTierPromotions()
	svc.AddMatchesImported(4)
	svc.ObserveRatingChange(-16)

	persisted, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, 2, persisted["matches_rated:singles"])
	assert.Equal(t, 1, persisted["matches_rated:mixed_doubles"])
	assert.Equal(t, 1, persisted[KeyMatchesFailed])
	assert.Equal(t, 1, persisted[KeyTierPromotions])
	assert.Equal(t, 4, persisted[KeyMatchesImported])
}

func TestServiceRestoresFromStore(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	first := NewService(prometheus.NewRegistry()).WithStore(store)
	first.IncFetcherRuns()
	first.IncMatchesRated("doubles")
	first.AddMatchesImported(7)

	// a fresh process starts from the persisted totals
	second := NewService(prometheus.NewRegistry()).WithStore(store)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.FetcherRuns))
	assert.Equal(t, 7.0, testutil.ToFloat64(second.MatchesImported))
	assert.Equal(t, 1.0, testutil.ToFloat64(second.MatchesRated.WithLabelValues("doubles")))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.MatchesFailed))

	second.IncMatchesRated("doubles")
	persisted, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, 2, persisted["matches_rated:doubles"])
}
