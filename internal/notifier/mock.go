package notifier

import (
	"sync"

	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/tier"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for send functions
	SendResultNotificationFunc func(summary *MatchSummary, dryRun bool) error
	SendTierPromotionFunc      func(change TierChange, dryRun bool) error

	// Call records
	SendResultNotificationCalls []*MatchSummary
	SendTierPromotionCalls      []TierChange
	SendMatchProposalCalls      []*matchmaking.MatchProposal
	SendLeaderboardCalls        [][]club.Player
	FormatProgressCalls         []tier.Progress
	FormatPlayerNotFoundCalls   []string
	// suggestions passed with each FormatPlayerNotFoundCalls entry
	PlayerSuggestionCalls [][]club.PlayerSuggestion
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.SendTierPromotionCalls = nil
	m.SendMatchProposalCalls = nil
	m.SendLeaderboardCalls = nil
	m.FormatProgressCalls = nil
	m.FormatPlayerNotFoundCalls = nil
	m.PlayerSuggestionCalls = nil
}

func (m *Mock) SendResultNotification(summary *MatchSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, summary)
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(summary, dryRun)
	}
	return nil
}

func (m *Mock) SendTierPromotion(change TierChange, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendTierPromotionCalls = append(m.SendTierPromotionCalls, change)
	if m.SendTierPromotionFunc != nil {
		return m.SendTierPromotionFunc(change, dryRun)
	}
	return nil
}

func (m *Mock) SendMatchProposal(request *matchmaking.MatchRequest, proposal *matchmaking.MatchProposal, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchProposalCalls = append(m.SendMatchProposalCalls, proposal)
	return nil
}

func (m *Mock) SendLeaderboard(players []club.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, players)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(players []club.Player) (any, error) {
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatPlayerProgressResponse(player *club.Player, progress tier.Progress) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatProgressCalls = append(m.FormatProgressCalls, progress)
	return "formatted_progress", nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string, suggestions []club.PlayerSuggestion) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatPlayerNotFoundCalls = append(m.FormatPlayerNotFoundCalls, query)
	m.PlayerSuggestionCalls = append(m.PlayerSuggestionCalls, suggestions)
	return "formatted_player_not_found", nil
}

func (m *Mock) FormatPartnerSuggestionsResponse(player *club.Player, suggestions []matchmaking.PartnerSuggestion) (any, error) {
	return "formatted_partners", nil
}
