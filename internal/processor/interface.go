package processor

import (
	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetMatchesForProcessing() ([]*club.Match, error)
	GetPlayers(playerIDs []string) ([]club.Player, error)
	GetRatingHistory(playerID string, limit int) ([]club.RatingChange, error)
	UpdateProcessingStatus(matchID string, status club.ProcessingStatus) error
	MarkMatchFailed(matchID, reason string) error
	ApplyMatchResult(matchID string, changes []club.RatingChange) error
	UpdatePlayerTier(playerID, tier string) error
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	SendResultNotification(summary *notifier.MatchSummary, dryRun bool) error
	SendTierPromotion(change notifier.TierChange, dryRun bool) error
}
