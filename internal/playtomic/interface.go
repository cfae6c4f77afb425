package playtomic

import "github.com/mauv0809/courtside/internal/club"

// PlaytomicClient defines the interface for interacting with the Playtomic API.
// This allows for mock implementations to be used in tests.
type PlaytomicClient interface {
	GetMatches(params *SearchMatchesParams) ([]MatchSummary, error)
	GetSpecificMatch(matchID string) (TennisMatch, error)
}

// Store is the part of the club store the importer writes to.
type Store interface {
	IsKnownPlayer(playerID string) bool
	InsertMatch(match *club.Match) (bool, error)
}
