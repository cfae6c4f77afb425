package rating

import "fmt"

// Strategy rates a finished match. SideA and SideB hold the pre-match
// ratings, and outcome is seen from side A.
type Strategy interface {
	Name() string
	SupportsDraws() bool
	Rate(format GameFormat, sideA, sideB []float64, outcome Outcome) (Update, error)
}

// Update carries the per-player changes in the same order as the input.
type Update struct {
	Strategy string
	KFactor  float64
	ChangesA []int
	ChangesB []int
}

// SimpleStrategy is the plain two-player calculator. It handles draws.
type SimpleStrategy struct {
	KFactor float64
}

func NewSimpleStrategy(k float64) SimpleStrategy {
	if k <= 0 {
		k = DefaultSinglesKFactor
	}
	return SimpleStrategy{KFactor: k}
}

func (SimpleStrategy) Name() string        { return "simple" }
func (SimpleStrategy) SupportsDraws() bool { return true }

func (s SimpleStrategy) Rate(format GameFormat, sideA, sideB []float64, outcome Outcome) (Update, error) {
	if !format.IsSingles() || len(sideA) != 1 || len(sideB) != 1 {
		return Update{}, fmt.Errorf("%w: %s strategy only rates one player per side", ErrInvalidArgument, s.Name())
	}
	res, err := ComputeSinglesUpdate(sideA[0], sideB[0], outcome, s.KFactor)
	if err != nil {
		return Update{}, err
	}
	return Update{
		Strategy: s.Name(),
		KFactor:  s.KFactor,
		ChangesA: []int{res.ChangeA},
		ChangesB: []int{res.ChangeB},
	}, nil
}

// TeamAwareStrategy rates singles and doubles with per-format K factors.
// It needs a decided winner.
type TeamAwareStrategy struct {
	SinglesKFactor float64
	DoublesKFactor float64
}

func NewTeamAwareStrategy(singlesK, doublesK float64) TeamAwareStrategy {
	if singlesK <= 0 {
		singlesK = DefaultSinglesKFactor
	}
	if doublesK <= 0 {
		doublesK = DefaultDoublesKFactor
	}
	return TeamAwareStrategy{SinglesKFactor: singlesK, DoublesKFactor: doublesK}
}

func (TeamAwareStrategy) Name() string        { return "team_aware" }
func (TeamAwareStrategy) SupportsDraws() bool { return false }

func (s TeamAwareStrategy) Rate(format GameFormat, sideA, sideB []float64, outcome Outcome) (Update, error) {
	k := s.DoublesKFactor
	if format.IsSingles() {
		k = s.SinglesKFactor
	}
	switch outcome {
	case Win:
		res, err := ComputeMatchUpdate(format, sideA, sideB, k)
		if err != nil {
			return Update{}, err
		}
		return Update{Strategy: s.Name(), KFactor: res.KFactor, ChangesA: res.WinnerChanges, ChangesB: res.LoserChanges}, nil
	case Loss:
		res, err := ComputeMatchUpdate(format, sideB, sideA, k)
		if err != nil {
			return Update{}, err
		}
		return Update{Strategy: s.Name(), KFactor: res.KFactor, ChangesA: res.LoserChanges, ChangesB: res.WinnerChanges}, nil
	case Draw:
		return Update{}, ErrDrawNotSupported
	}
	return Update{}, fmt.Errorf("%w: unknown outcome %q", ErrInvalidArgument, outcome)
}

// StrategyFor picks the simple calculator for singles draws and the team
// aware one for everything else.
func StrategyFor(format GameFormat, outcome Outcome, simple SimpleStrategy, team TeamAwareStrategy) Strategy {
	if outcome == Draw && format.IsSingles() {
		return simple
	}
	return team
}
