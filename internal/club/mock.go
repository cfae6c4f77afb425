package club

import (
	"fmt"
	"sync"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	AddPlayerFunc               func(player Player) error
	UpsertPlayersFunc           func(players []Player) error
	GetPlayerFunc               func(playerID string) (*Player, error)
	GetPlayersFunc              func(playerIDs []string) ([]Player, error)
	GetPlayerByNameFunc         func(name string) (*Player, error)
	GetPlayerBySlackIDFunc      func(slackUserID string) (*Player, error)
	GetAllPlayersFunc           func() ([]Player, error)
	GetLeaderboardFunc          func(limit int) ([]Player, error)
	GetPointsLeaderboardFunc    func(limit int) ([]Player, error)
	IsKnownPlayerFunc           func(playerID string) bool
	UpdatePlayerTierFunc        func(playerID, tier string) error
	InsertMatchFunc             func(match *Match) (bool, error)
	GetMatchFunc                func(matchID string) (*Match, error)
	GetAllMatchesFunc           func() ([]*Match, error)
	GetMatchesForProcessingFunc func() ([]*Match, error)
	UpdateProcessingStatusFunc  func(matchID string, status ProcessingStatus) error
	MarkMatchFailedFunc         func(matchID, reason string) error
	ApplyMatchResultFunc        func(matchID string, changes []RatingChange) error
	GetRatingHistoryFunc        func(playerID string, limit int) ([]RatingChange, error)
	ClearFunc                   func()
	ClearMatchFunc              func(matchID string)

	// Call records
	AddPlayerCalls              []Player
	GetPlayersCalls             [][]string
	InsertMatchCalls            []*Match
	UpdateProcessingStatusCalls []struct {
		MatchID string
		Status  ProcessingStatus
	}
	MarkMatchFailedCalls []struct {
		MatchID string
		Reason  string
	}
	ApplyMatchResultCalls []struct {
		MatchID string
		Changes []RatingChange
	}
	UpdatePlayerTierCalls []struct {
		PlayerID string
		Tier     string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = nil
	m.GetPlayersCalls = nil
	m.InsertMatchCalls = nil
	m.UpdateProcessingStatusCalls = nil
	m.MarkMatchFailedCalls = nil
	m.ApplyMatchResultCalls = nil
	m.UpdatePlayerTierCalls = nil
}

func (m *MockStore) AddPlayer(player Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, player)
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(player)
	}
	return nil
}

func (m *MockStore) UpsertPlayers(players []Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(players)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
}

func (m *MockStore) GetPlayers(playerIDs []string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayersCalls = append(m.GetPlayersCalls, playerIDs)
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return nil, nil
}

func (m *MockStore) GetPlayerByName(name string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerByNameFunc != nil {
		return m.GetPlayerByNameFunc(name)
	}
	return nil, fmt.Errorf("%w: matching '%s'", ErrPlayerNotFound, name)
}

func (m *MockStore) GetPlayerBySlackID(slackUserID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerBySlackIDFunc != nil {
		return m.GetPlayerBySlackIDFunc(slackUserID)
	}
	return nil, fmt.Errorf("%w: slack user %s", ErrPlayerNotFound, slackUserID)
}

func (m *MockStore) GetAllPlayers() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) GetLeaderboard(limit int) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetLeaderboardFunc != nil {
		return m.GetLeaderboardFunc(limit)
	}
	return nil, nil
}

func (m *MockStore) GetPointsLeaderboard(limit int) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPointsLeaderboardFunc != nil {
		return m.GetPointsLeaderboardFunc(limit)
	}
	return nil, nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return false
}

func (m *MockStore) UpdatePlayerTier(playerID, tier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerTierCalls = append(m.UpdatePlayerTierCalls, struct {
		PlayerID string
		Tier     string
	}{playerID, tier})
	if m.UpdatePlayerTierFunc != nil {
		return m.UpdatePlayerTierFunc(playerID, tier)
	}
	return nil
}

func (m *MockStore) InsertMatch(match *Match) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertMatchCalls = append(m.InsertMatchCalls, match)
	if m.InsertMatchFunc != nil {
		return m.InsertMatchFunc(match)
	}
	return true, nil
}

func (m *MockStore) GetMatch(matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
}

func (m *MockStore) GetAllMatches() ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return nil, nil
}

func (m *MockStore) GetMatchesForProcessing() ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchesForProcessingFunc != nil {
		return m.GetMatchesForProcessingFunc()
	}
	return nil, nil
}

func (m *MockStore) UpdateProcessingStatus(matchID string, status ProcessingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateProcessingStatusCalls = append(m.UpdateProcessingStatusCalls, struct {
		MatchID string
		Status  ProcessingStatus
	}{matchID, status})
	if m.UpdateProcessingStatusFunc != nil {
		return m.UpdateProcessingStatusFunc(matchID, status)
	}
	return nil
}

func (m *MockStore) MarkMatchFailed(matchID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkMatchFailedCalls = append(m.MarkMatchFailedCalls, struct {
		MatchID string
		Reason  string
	}{matchID, reason})
	if m.MarkMatchFailedFunc != nil {
		return m.MarkMatchFailedFunc(matchID, reason)
	}
	return nil
}

func (m *MockStore) ApplyMatchResult(matchID string, changes []RatingChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyMatchResultCalls = append(m.ApplyMatchResultCalls, struct {
		MatchID string
		Changes []RatingChange
	}{matchID, changes})
	if m.ApplyMatchResultFunc != nil {
		return m.ApplyMatchResultFunc(matchID, changes)
	}
	return nil
}

func (m *MockStore) GetRatingHistory(playerID string, limit int) ([]RatingChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRatingHistoryFunc != nil {
		return m.GetRatingHistoryFunc(playerID, limit)
	}
	return nil, nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}

func (m *MockStore) ClearMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearMatchFunc != nil {
		m.ClearMatchFunc(matchID)
	}
}
