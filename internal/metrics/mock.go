package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	fetcherRuns         int
	matchesImported     int
	matchesRated        map[string]int
	matchesFailed       int
	ratingChanges       []float64
	tierPromotions      int
	processingDurations []float64
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		matchesRated:        make(map[string]int),
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncFetcherRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetcherRuns++
}

func (m *Mock) AddMatchesImported(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesImported += n
}

func (m *Mock) IncMatchesRated(format string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRated[format]++
}

func (m *Mock) IncMatchesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesFailed++
}

func (m *Mock) ObserveRatingChange(change float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingChanges = append(m.ratingChanges, change)
}

func (m *Mock) IncTierPromotions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tierPromotions++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// FetcherRuns returns the number of times IncFetcherRuns was called.
func (m *Mock) FetcherRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetcherRuns
}

func (m *Mock) MatchesImported() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesImported
}

// MatchesRated returns how often IncMatchesRated was called for format.
func (m *Mock) MatchesRated(format string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRated[format]
}

func (m *Mock) MatchesFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesFailed
}

func (m *Mock) RatingChanges() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.ratingChanges...)
}

func (m *Mock) TierPromotions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tierPromotions
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
