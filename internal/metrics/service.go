package metrics

import (
	"math"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		FetcherRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_fetcher_runs_total",
			Help: "The total number of times the Playtomic import has run.",
		}),
		MatchesImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_matches_imported_total",
			Help: "The total number of new matches stored by the Playtomic import.",
		}),
		MatchesRated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_matches_rated_total",
			Help: "The total number of matches rated, by game format.",
		}, []string{"format"}),
		MatchesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_matches_failed_total",
			Help: "The total number of matches that could not be rated.",
		}),
		RatingChange: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtside_rating_change_abs",
			Help:    "Absolute per-player rating change applied by a match.",
			Buckets: []float64{0, 2, 4, 8, 12, 16, 20, 24, 32, 40},
		}),
		TierPromotions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_tier_promotions_total",
			Help: "The total number of players promoted to a higher tier.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtside_match_processing_duration_seconds",
			Help:    "The duration of individual match processing.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtside_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.FetcherRuns,
		s.MatchesImported,
		s.MatchesRated,
		s.MatchesFailed,
		s.RatingChange,
		s.TierPromotions,
		s.ProcessingDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

// WithStore mirrors the domain counters into a persistent store and starts
// them from the totals it already holds, so they survive a restart.
func (s *Service) WithStore(store MetricsStore) *Service {
	s.store = store
	totals, err := store.GetAll()
	if err != nil {
		log.Warn("Failed to restore persisted metrics", "error", err)
		return s
	}
	for key, value := range totals {
		if value <= 0 {
			continue
		}
		v := float64(value)
		switch key {
		case KeyFetcherRuns:
			s.FetcherRuns.Add(v)
		case KeyMatchesImported:
			s.MatchesImported.Add(v)
		case KeyMatchesFailed:
			s.MatchesFailed.Add(v)
		case KeyTierPromotions:
			s.TierPromotions.Add(v)
		default:
			if format, ok := strings.CutPrefix(key, KeyMatchesRated+":"); ok {
				s.MatchesRated.WithLabelValues(format).Add(v)
			}
		}
	}
	log.Debug("Restored persisted metrics", "keys", len(totals))
	return s
}

func (s *Service) persist(key string, n int) {
	if s.store == nil {
		return
	}
	if err := s.store.Add(key, n); err != nil {
		log.Error("Failed to persist metric", "key", key, "error", err)
	}
}

func (s *Service) IncFetcherRuns() {
	s.FetcherRuns.Inc()
	s.persist(KeyFetcherRuns, 1)
}

func (s *Service) AddMatchesImported(n int) {
	if n <= 0 {
		return
	}
	s.MatchesImported.Add(float64(n))
	s.persist(KeyMatchesImported, n)
}

func (s *Service) IncMatchesRated(format string) {
	s.MatchesRated.WithLabelValues(format).Inc()
	s.persist(ratedKey(format), 1)
}

func (s *Service) IncMatchesFailed() {
	s.MatchesFailed.Inc()
	s.persist(KeyMatchesFailed, 1)
}

func (s *Service) ObserveRatingChange(change float64) {
	s.RatingChange.Observe(math.Abs(change))
}

func (s *Service) IncTierPromotions() {
	s.TierPromotions.Inc()
	s.persist(KeyTierPromotions, 1)
}

func (s *Service) ObserveProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
