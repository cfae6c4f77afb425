package club

// ClubStore defines the interface for interacting with the club's data.
type ClubStore interface {
	AddPlayer(player Player) error
	UpsertPlayers(players []Player) error
	GetPlayer(playerID string) (*Player, error)
	GetPlayers(playerIDs []string) ([]Player, error)
	GetPlayerByName(name string) (*Player, error)
	GetPlayerBySlackID(slackUserID string) (*Player, error)
	GetAllPlayers() ([]Player, error)
	GetLeaderboard(limit int) ([]Player, error)
	GetPointsLeaderboard(limit int) ([]Player, error)
	IsKnownPlayer(playerID string) bool
	UpdatePlayerTier(playerID, tier string) error

	InsertMatch(match *Match) (bool, error)
	GetMatch(matchID string) (*Match, error)
	GetAllMatches() ([]*Match, error)
	GetMatchesForProcessing() ([]*Match, error)
	UpdateProcessingStatus(matchID string, status ProcessingStatus) error
	MarkMatchFailed(matchID, reason string) error
	ApplyMatchResult(matchID string, changes []RatingChange) error
	GetRatingHistory(playerID string, limit int) ([]RatingChange, error)

	Clear()
	ClearMatch(matchID string)
}
