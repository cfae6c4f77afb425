package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncFetcherRuns()
	AddMatchesImported(n int)
	IncMatchesRated(format string)
	IncMatchesFailed()
	ObserveRatingChange(change float64)
	IncTierPromotions()
	ObserveProcessingDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore keeps counter totals that must survive a restart.
type MetricsStore interface {
	Add(key string, n int) error
	GetAll() (map[string]int, error)
}
