package rating

import (
	"fmt"
	"math"
)

// WinProbability is the logistic expected score of player against opponent.
func WinProbability(player, opponent float64) float64 {
	return 1 / (1 + math.Pow(10, (opponent-player)/400))
}

// RecommendKFactor gives new players a more volatile rating.
func RecommendKFactor(gamesPlayed int) float64 {
	switch {
	case gamesPlayed < 10:
		return 40
	case gamesPlayed < 30:
		return 32
	default:
		return 24
	}
}

// ComputeSinglesUpdate rates a two-party match. Deltas are rounded half away
// from zero.
func ComputeSinglesUpdate(ratingA, ratingB float64, outcome Outcome, kFactor float64) (SinglesResult, error) {
	if !outcome.Valid() {
		return SinglesResult{}, fmt.Errorf("%w: unknown outcome %q", ErrInvalidArgument, outcome)
	}
	if err := validateKFactor(kFactor); err != nil {
		return SinglesResult{}, err
	}
	if err := validateRatings(ratingA, ratingB); err != nil {
		return SinglesResult{}, err
	}

	expectedA := WinProbability(ratingA, ratingB)
	expectedB := WinProbability(ratingB, ratingA)
	actualA, actualB := outcome.scores()

	changeA := int(math.Round(kFactor * (actualA - expectedA)))
	changeB := int(math.Round(kFactor * (actualB - expectedB)))

	return SinglesResult{
		ExpectedA: expectedA,
		ExpectedB: expectedB,
		ChangeA:   changeA,
		ChangeB:   changeB,
		NewA:      ratingA + float64(changeA),
		NewB:      ratingB + float64(changeB),
	}, nil
}

// ComputeDoublesUpdate rates the team averages against each other and hands
// each player a share of the team change proportional to their part of the
// team rating. Each share is rounded on its own, so a team's player changes
// may differ from the team change by one point.
func ComputeDoublesUpdate(winners, losers TeamRating, kFactor float64) (DoublesResult, error) {
	if err := validateRatings(winners[0], winners[1], losers[0], losers[1]); err != nil {
		return DoublesResult{}, err
	}
	team, err := ComputeSinglesUpdate(winners.Average(), losers.Average(), Win, kFactor)
	if err != nil {
		return DoublesResult{}, err
	}
	return DoublesResult{
		Winners: distribute(winners, team.ChangeA),
		Losers:  distribute(losers, team.ChangeB),
	}, nil
}

func distribute(team TeamRating, teamChange int) TeamResult {
	res := TeamResult{TeamChange: teamChange}
	sum := team[0] + team[1]
	for i, r := range team {
		share := 0.5
		if sum != 0 {
			share = r / sum
		}
		res.Changes[i] = int(math.Round(float64(teamChange) * share))
		res.NewRatings[i] = r + float64(res.Changes[i])
	}
	return res
}

// ComputeMatchUpdate dispatches on format. A kFactor <= 0 selects the format
// default.
func ComputeMatchUpdate(format GameFormat, winnerRatings, loserRatings []float64, kFactor float64) (MatchResult, error) {
	arity := format.PlayersPerSide()
	if arity == 0 {
		return MatchResult{}, fmt.Errorf("%w: unknown game format %q", ErrInvalidArgument, format)
	}
	if len(winnerRatings) != arity || len(loserRatings) != arity {
		return MatchResult{}, fmt.Errorf("%w: %s needs %d player(s) per side, got %d and %d",
			ErrInvalidArgument, format, arity, len(winnerRatings), len(loserRatings))
	}

	if arity == 1 {
		if kFactor <= 0 {
			kFactor = DefaultSinglesKFactor
		}
		res, err := ComputeSinglesUpdate(winnerRatings[0], loserRatings[0], Win, kFactor)
		if err != nil {
			return MatchResult{}, err
		}
		return MatchResult{
			Format:         format,
			KFactor:        kFactor,
			WinnerChanges:  []int{res.ChangeA},
			LoserChanges:   []int{res.ChangeB},
			WinnerRatings:  []float64{res.NewA},
			LoserRatings:   []float64{res.NewB},
			WinProbability: res.ExpectedA,
		}, nil
	}

	if kFactor <= 0 {
		kFactor = DefaultDoublesKFactor
	}
	winners := TeamRating{winnerRatings[0], winnerRatings[1]}
	losers := TeamRating{loserRatings[0], loserRatings[1]}
	res, err := ComputeDoublesUpdate(winners, losers, kFactor)
	if err != nil {
		return MatchResult{}, err
	}
	return MatchResult{
		Format:         format,
		KFactor:        kFactor,
		WinnerChanges:  res.Winners.Changes[:],
		LoserChanges:   res.Losers.Changes[:],
		WinnerRatings:  res.Winners.NewRatings[:],
		LoserRatings:   res.Losers.NewRatings[:],
		WinProbability: WinProbability(winners.Average(), losers.Average()),
	}, nil
}

func validateKFactor(k float64) error {
	if k <= 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return fmt.Errorf("%w: k factor must be a positive number, got %v", ErrInvalidArgument, k)
	}
	return nil
}

func validateRatings(ratings ...float64) error {
	for _, r := range ratings {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: rating must be finite, got %v", ErrInvalidArgument, r)
		}
	}
	return nil
}
