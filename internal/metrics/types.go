package metrics

import "github.com/prometheus/client_golang/prometheus"

// Persistent counter keys. Rated matches are kept per format under
// KeyMatchesRated + ":" + format.
const (
	KeyMatchesRated    = "matches_rated"
	KeyMatchesImported = "matches_imported"
	KeyMatchesFailed   = "matches_failed"
	KeyTierPromotions  = "tier_promotions"
	KeyFetcherRuns     = "fetcher_runs"
)

func ratedKey(format string) string {
	return KeyMatchesRated + ":" + format
}

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	FetcherRuns        prometheus.Counter
	MatchesImported    prometheus.Counter
	MatchesRated       *prometheus.CounterVec
	MatchesFailed      prometheus.Counter
	RatingChange       prometheus.Histogram
	TierPromotions     prometheus.Counter
	ProcessingDuration prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge

	store MetricsStore
}
