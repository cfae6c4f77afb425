package playtomic

import "sync"

// MockClient is a mock implementation of the PlaytomicClient interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	GetMatchesFunc       func(params *SearchMatchesParams) ([]MatchSummary, error)
	GetSpecificMatchFunc func(matchID string) (TennisMatch, error)

	// Call records
	GetMatchesCalls       []*SearchMatchesParams
	GetSpecificMatchCalls []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchesCalls = nil
	m.GetSpecificMatchCalls = nil
}

func (m *MockClient) GetMatches(params *SearchMatchesParams) ([]MatchSummary, error) {
	m.mu.Lock()
	m.GetMatchesCalls = append(m.GetMatchesCalls, params)
	fn := m.GetMatchesFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(params)
	}
	return []MatchSummary{}, nil
}

// GetSpecificMatch does not hold the lock while the hook runs, so concurrent
// lookups really overlap.
func (m *MockClient) GetSpecificMatch(matchID string) (TennisMatch, error) {
	m.mu.Lock()
	m.GetSpecificMatchCalls = append(m.GetSpecificMatchCalls, matchID)
	fn := m.GetSpecificMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(matchID)
	}
	return TennisMatch{}, nil
}
