package rating

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// InitialRating is the rating assigned to a newly registered player.
	InitialRating = 1200.0

	DefaultSinglesKFactor = 32.0
	DefaultDoublesKFactor = 24.0
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrDrawNotSupported = fmt.Errorf("%w: draws are not supported by this strategy", ErrInvalidArgument)
)

// Outcome is a match result seen from side A.
type Outcome string

const (
	Win  Outcome = "win"
	Loss Outcome = "loss"
	Draw Outcome = "draw"
)

func (o Outcome) Valid() bool {
	switch o {
	case Win, Loss, Draw:
		return true
	}
	return false
}

// scores returns the actual scores for side A and side B.
func (o Outcome) scores() (float64, float64) {
	switch o {
	case Win:
		return 1, 0
	case Loss:
		return 0, 1
	default:
		return 0.5, 0.5
	}
}

// GameFormat names how a match was played. The gendered variants share the
// math of their base format.
type GameFormat string

const (
	Singles       GameFormat = "singles"
	Doubles       GameFormat = "doubles"
	MensSingles   GameFormat = "mens_singles"
	WomensSingles GameFormat = "womens_singles"
	MensDoubles   GameFormat = "mens_doubles"
	WomensDoubles GameFormat = "womens_doubles"
	MixedDoubles  GameFormat = "mixed_doubles"
)

func (f GameFormat) IsSingles() bool {
	return strings.Contains(strings.ToLower(string(f)), "singles")
}

func (f GameFormat) IsDoubles() bool {
	return strings.Contains(strings.ToLower(string(f)), "doubles")
}

// PlayersPerSide returns 1 for singles, 2 for doubles and 0 for an unknown format.
func (f GameFormat) PlayersPerSide() int {
	switch {
	case f.IsSingles():
		return 1
	case f.IsDoubles():
		return 2
	}
	return 0
}

// SinglesResult holds both sides of a two-party update.
type SinglesResult struct {
	ExpectedA float64
	ExpectedB float64
	ChangeA   int
	ChangeB   int
	NewA      float64
	NewB      float64
}

// TeamRating is a doubles pair. Position carries no meaning beyond order.
type TeamRating [2]float64

func (t TeamRating) Average() float64 {
	return (t[0] + t[1]) / 2
}

// TeamResult is the per-player outcome for one doubles team.
type TeamResult struct {
	TeamChange int
	Changes    [2]int
	NewRatings [2]float64
}

type DoublesResult struct {
	Winners TeamResult
	Losers  TeamResult
}

// MatchResult is the format-independent result of ComputeMatchUpdate.
// Slices are ordered like the input ratings.
type MatchResult struct {
	Format         GameFormat
	KFactor        float64
	WinnerChanges  []int
	LoserChanges   []int
	WinnerRatings  []float64
	LoserRatings   []float64
	WinProbability float64
}
