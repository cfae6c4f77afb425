package notifier

import (
	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/tier"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For rated matches
	SendResultNotification(summary *MatchSummary, dryRun bool) error
	SendTierPromotion(change TierChange, dryRun bool) error
	// For matchmaking
	SendMatchProposal(request *matchmaking.MatchRequest, proposal *matchmaking.MatchProposal, dryRun bool) error
	SendLeaderboard(players []club.Player, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(players []club.Player) (any, error)
	FormatPlayerProgressResponse(player *club.Player, progress tier.Progress) (any, error)
	FormatPlayerNotFoundResponse(query string, suggestions []club.PlayerSuggestion) (any, error)
	FormatPartnerSuggestionsResponse(player *club.Player, suggestions []matchmaking.PartnerSuggestion) (any, error)
}

// MatchSummary is a rated match with the players as they were before it.
type MatchSummary struct {
	Match   *club.Match
	SideA   []club.Player
	SideB   []club.Player
	Changes map[string]club.RatingChange
}

// TierChange is a player moving from one tier to another.
type TierChange struct {
	Player   club.Player
	From     tier.Definition
	To       tier.Definition
	Promoted bool
}
