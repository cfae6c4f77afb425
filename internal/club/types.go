package club

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mauv0809/courtside/internal/rating"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrInvalidPlayer  = errors.New("invalid player")
)

// store handles all database operations for the club.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Player carries both reward currencies. Rating moves with ELO, Points only
// with fixed match bonuses, and Tier is derived from Points and the record.
type Player struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SlackUserID   string    `json:"slack_user_id,omitempty"`
	Rating        float64   `json:"rating"`
	Points        int       `json:"points"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	Draws         int       `json:"draws"`
	MatchesPlayed int       `json:"matches_played"`
	Tier          string    `json:"tier"`
	CreatedAt     time.Time `json:"created_at"`
}

// WinRate is wins over decided matches, as a fraction.
func (p Player) WinRate() float64 {
	if p.Wins+p.Losses == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Wins+p.Losses)
}

// ProcessingStatus is where a reported match is in the completion workflow.
type ProcessingStatus string

const (
	StatusNew       ProcessingStatus = "NEW"
	StatusRated     ProcessingStatus = "RATED"
	StatusNotified  ProcessingStatus = "NOTIFIED"
	StatusCompleted ProcessingStatus = "COMPLETED"
	StatusFailed    ProcessingStatus = "FAILED"
)

const (
	SourceManual    = "manual"
	SourcePlaytomic = "playtomic"
	SourceSeeder    = "seeder"
)

// Match is a reported result. Outcome is seen from SideA.
type Match struct {
	ID               string            `json:"id"`
	ExternalID       string            `json:"external_id,omitempty"`
	Source           string            `json:"source"`
	Format           rating.GameFormat `json:"format"`
	Outcome          rating.Outcome    `json:"outcome"`
	SideA            []string          `json:"side_a"`
	SideB            []string          `json:"side_b"`
	PlayedAt         time.Time         `json:"played_at"`
	CreatedAt        time.Time         `json:"created_at"`
	ProcessingStatus ProcessingStatus  `json:"processing_status"`
	FailureReason    string            `json:"failure_reason,omitempty"`
}

func (m *Match) PlayerIDs() []string {
	ids := make([]string, 0, len(m.SideA)+len(m.SideB))
	ids = append(ids, m.SideA...)
	return append(ids, m.SideB...)
}

// Validate checks the shape of a report: a known format, a valid outcome and
// the right number of distinct players on each side.
func (m *Match) Validate() error {
	arity := m.Format.PlayersPerSide()
	if arity == 0 {
		return fmt.Errorf("%w: unknown game format %q", rating.ErrInvalidArgument, m.Format)
	}
	if len(m.SideA) != arity || len(m.SideB) != arity {
		return fmt.Errorf("%w: %s needs %d player(s) per side, got %d and %d",
			rating.ErrInvalidArgument, m.Format, arity, len(m.SideA), len(m.SideB))
	}
	if !m.Outcome.Valid() {
		return fmt.Errorf("%w: unknown outcome %q", rating.ErrInvalidArgument, m.Outcome)
	}
	seen := make(map[string]bool, 2*arity)
	for _, id := range m.PlayerIDs() {
		if id == "" {
			return fmt.Errorf("%w: empty player id", rating.ErrInvalidArgument)
		}
		if seen[id] {
			return fmt.Errorf("%w: player %s appears twice", rating.ErrInvalidArgument, id)
		}
		seen[id] = true
	}
	return nil
}

// Winners returns the winning side, or nil for a draw.
func (m *Match) Winners() []string {
	switch m.Outcome {
	case rating.Win:
		return m.SideA
	case rating.Loss:
		return m.SideB
	}
	return nil
}

// RatingChange is one player's line in the rating history. Result is the
// player's own outcome.
type RatingChange struct {
	MatchID       string         `json:"match_id"`
	PlayerID      string         `json:"player_id"`
	Result        rating.Outcome `json:"result"`
	OldRating     float64        `json:"old_rating"`
	Change        int            `json:"change"`
	NewRating     float64        `json:"new_rating"`
	PointsAwarded int            `json:"points_awarded"`
	Strategy      string         `json:"strategy"`
	KFactor       float64        `json:"k_factor"`
	CreatedAt     time.Time      `json:"created_at"`
}
