package playtomic

import (
	"errors"
	"fmt"

	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/rating"
)

var (
	ErrNotRateable   = errors.New("match cannot be rated")
	ErrUnknownPlayer = errors.New("match has a player who is not a club member")
)

// ToClubMatch turns a finished Playtomic match into a match report. Only
// played matches with confirmed results, two equally sized teams of one or
// two players and only known players qualify.
func ToClubMatch(m TennisMatch, isKnown func(playerID string) bool) (*club.Match, error) {
	if m.GameStatus != GameStatusPlayed || m.ResultsStatus != ResultsStatusConfirmed {
		return nil, fmt.Errorf("%w: status %s, results %s", ErrNotRateable, m.GameStatus, m.ResultsStatus)
	}
	if len(m.Teams) != 2 {
		return nil, fmt.Errorf("%w: %d teams", ErrNotRateable, len(m.Teams))
	}
	size := len(m.Teams[0].Players)
	if size != len(m.Teams[1].Players) || size < 1 || size > 2 {
		return nil, fmt.Errorf("%w: teams of %d and %d players", ErrNotRateable, len(m.Teams[0].Players), len(m.Teams[1].Players))
	}

	sides := make([][]string, 2)
	for i, team := range m.Teams {
		for _, p := range team.Players {
			if p.UserID == "" || !isKnown(p.UserID) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, p.Name)
			}
			sides[i] = append(sides[i], p.UserID)
		}
	}

	outcome, err := outcomeOf(m)
	if err != nil {
		return nil, err
	}

	format := rating.Singles
	if size == 2 {
		format = rating.Doubles
	}
	return &club.Match{
		ExternalID: m.MatchID,
		Source:     club.SourcePlaytomic,
		Format:     format,
		Outcome:    outcome,
		SideA:      sides[0],
		SideB:      sides[1],
		PlayedAt:   m.End,
	}, nil
}

// outcomeOf reads the result for the first team. The reported team result
// wins; without one the sets are counted.
func outcomeOf(m TennisMatch) (rating.Outcome, error) {
	switch {
	case m.Teams[0].TeamResult == TeamResultWon || m.Teams[1].TeamResult == TeamResultLost:
		return rating.Win, nil
	case m.Teams[1].TeamResult == TeamResultWon || m.Teams[0].TeamResult == TeamResultLost:
		return rating.Loss, nil
	case m.Teams[0].TeamResult == TeamResultTied:
		return rating.Draw, nil
	}

	if len(m.Results) == 0 {
		return "", fmt.Errorf("%w: no result reported", ErrNotRateable)
	}
	var setsA, setsB int
	for _, set := range m.Results {
		a, b := set.Scores[m.Teams[0].ID], set.Scores[m.Teams[1].ID]
		switch {
		case a > b:
			setsA++
		case b > a:
			setsB++
		}
	}
	switch {
	case setsA > setsB:
		return rating.Win, nil
	case setsB > setsA:
		return rating.Loss, nil
	}
	return rating.Draw, nil
}
