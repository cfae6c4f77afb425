package matchmaking

import "github.com/mauv0809/courtside/internal/rating"

// MatchmakingService handles match requests and availability collection
type MatchmakingService interface {
	// CreateMatchRequest creates a new match request and initiates availability collection
	CreateMatchRequest(requesterID, requesterName, channelID string, format rating.GameFormat) (*MatchRequest, error)

	// GetMatchRequest retrieves a match request by ID
	GetMatchRequest(requestID string) (*MatchRequest, error)

	// RecordPlayerAvailability replaces a player's availability with the given dates
	RecordPlayerAvailability(requestID, playerID, playerName string, availableDates []string) error

	// AddPlayerAvailability adds a day to a player's availability
	AddPlayerAvailability(requestID, playerID, playerName, day string) error

	// RemovePlayerAvailability removes a day from a player's availability
	RemovePlayerAvailability(requestID, playerID, day string) error

	// GetPlayerAvailability gets all availability responses for a match request
	GetPlayerAvailability(requestID string) ([]PlayerAvailability, error)

	// AnalyzeAvailability analyzes responses to find the best match dates
	AnalyzeAvailability(requestID string) ([]AvailabilityResult, error)

	// ProposeMatch proposes a balanced line-up and a booking responsible for a date
	ProposeMatch(requestID, date, startTime, endTime string) (*MatchProposal, error)

	ConfirmMatch(requestID string) error
	CancelMatchRequest(requestID string) error
	UpdateMatchRequestStatus(requestID string, status MatchRequestStatus) error

	// GetActiveMatchRequests gets all requests still collecting availability or proposing
	GetActiveMatchRequests() ([]MatchRequest, error)

	// SuggestPartners lists the opponents closest to an even match for a player
	SuggestPartners(playerID string, limit int) ([]PartnerSuggestion, error)
}
