package club

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/rating"
)

const playerColumns = `id, name, slack_user_id, rating, points, wins, losses, draws, matches_played, tier, created_at`

const matchColumns = `id, external_id, source, format, outcome, side_a_json, side_b_json, played_at, created_at, processing_status, failure_reason`

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

// AddPlayer registers a player at the initial rating. An existing player only
// has their name and Slack ID refreshed; rating and points are kept.
func (s *store) AddPlayer(player Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertPlayer(s.db, player)
}

func (s *store) UpsertPlayers(players []Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range players {
		if err := s.upsertPlayer(tx, p); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit players: %w", err)
	}
	log.Info("Upserted players", "count", len(players))
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *store) upsertPlayer(db execer, p Player) error {
	if p.ID == "" || strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: player needs an id and a name", ErrInvalidPlayer)
	}
	r := p.Rating
	if r == 0 {
		r = rating.InitialRating
	}
	_, err := db.Exec(`
		INSERT INTO players (id, name, slack_user_id, rating, tier, created_at)
		VALUES (?, ?, ?, ?, 'Bronze', ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			slack_user_id = COALESCE(excluded.slack_user_id, players.slack_user_id);
	`, p.ID, p.Name, nullString(p.SlackUserID), r, time.Now().Unix())
	if err != nil {
		log.Error("Failed to add player", "error", err, "playerID", p.ID)
		return fmt.Errorf("failed to add player %s: %w", p.ID, err)
	}
	log.Debug("Stored player", "playerID", p.ID, "name", p.Name)
	return nil
}

func (s *store) GetPlayer(playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := scanPlayer(s.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE id = ?`, playerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", playerID, err)
	}
	return p, nil
}

// GetPlayers returns the players in the order of playerIDs. It fails if any
// of them is unknown.
func (s *store) GetPlayers(playerIDs []string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(playerIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(playerIDs)), ",")
	rows, err := s.db.Query(`SELECT `+playerColumns+` FROM players WHERE id IN (`+placeholders+`)`, ToAnySlice(playerIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	found, err := scanPlayers(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Player, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	players := make([]Player, 0, len(playerIDs))
	var missing []string
	for _, id := range playerIDs {
		p, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		players = append(players, p)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, strings.Join(missing, ", "))
	}
	return players, nil
}

// GetPlayerByName performs a case-insensitive, fuzzy search (e.g., "serena"
// will match "Serena Williams").
func (s *store) GetPlayerByName(name string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + strings.TrimSpace(name) + "%"
	p, err := scanPlayer(s.db.QueryRow(`
		SELECT `+playerColumns+` FROM players
		WHERE name LIKE ? COLLATE NOCASE
		ORDER BY LENGTH(name) ASC
		LIMIT 1`, pattern))
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("No player found matching pattern", "pattern", pattern)
		return nil, fmt.Errorf("%w: matching '%s'", ErrPlayerNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return p, nil
}

func (s *store) GetPlayerBySlackID(slackUserID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := scanPlayer(s.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE slack_user_id = ?`, slackUserID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: slack user %s", ErrPlayerNotFound, slackUserID)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return p, nil
}

func (s *store) GetAllPlayers() ([]Player, error) {
	return s.queryPlayers(`SELECT ` + playerColumns + ` FROM players ORDER BY name`)
}

// GetLeaderboard orders players by rating. A limit <= 0 returns everyone.
func (s *store) GetLeaderboard(limit int) ([]Player, error) {
	return s.queryPlayers(`SELECT `+playerColumns+` FROM players ORDER BY rating DESC, name ASC LIMIT ?`, sqlLimit(limit))
}

// GetPointsLeaderboard orders players by points, the currency tiers are
// built on.
func (s *store) GetPointsLeaderboard(limit int) ([]Player, error) {
	return s.queryPlayers(`SELECT `+playerColumns+` FROM players ORDER BY points DESC, wins DESC, name ASC LIMIT ?`, sqlLimit(limit))
}

func (s *store) queryPlayers(query string, args ...any) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	return scanPlayers(rows)
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

func (s *store) UpdatePlayerTier(playerID, tier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE players SET tier = ? WHERE id = ?", tier, playerID)
	if err != nil {
		return fmt.Errorf("failed to update tier for %s: %w", playerID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return nil
}

// InsertMatch stores a new match in state NEW. A match whose external ID is
// already stored is skipped and false is returned.
func (s *store) InsertMatch(match *Match) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	if match.Source == "" {
		match.Source = SourceManual
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	if match.PlayedAt.IsZero() {
		match.PlayedAt = match.CreatedAt
	}
	match.ProcessingStatus = StatusNew

	sideA, err := json.Marshal(match.SideA)
	if err != nil {
		return false, fmt.Errorf("failed to marshal side A: %w", err)
	}
	sideB, err := json.Marshal(match.SideB)
	if err != nil {
		return false, fmt.Errorf("failed to marshal side B: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO matches (`+matchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, '')
		ON CONFLICT DO NOTHING;
	`, match.ID, nullString(match.ExternalID), match.Source, string(match.Format), string(match.Outcome),
		string(sideA), string(sideB), match.PlayedAt.Unix(), match.CreatedAt.Unix(), string(StatusNew))
	if err != nil {
		return false, fmt.Errorf("failed to insert match: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert match: %w", err)
	}
	if n == 0 {
		log.Debug("Match already stored", "matchID", match.ID, "externalID", match.ExternalID)
		return false, nil
	}
	log.Info("Stored match", "matchID", match.ID, "format", match.Format, "outcome", match.Outcome, "source", match.Source)
	return true, nil
}

func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := scanMatch(s.db.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE id = ?`, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", matchID, err)
	}
	return m, nil
}

// GetAllMatches retrieves all matches, most recent first.
func (s *store) GetAllMatches() ([]*Match, error) {
	return s.queryMatches(`SELECT ` + matchColumns + ` FROM matches ORDER BY played_at DESC`)
}

// GetMatchesForProcessing retrieves all matches that are not in a terminal
// state, oldest first so ratings are applied in play order.
func (s *store) GetMatchesForProcessing() ([]*Match, error) {
	return s.queryMatches(`SELECT `+matchColumns+` FROM matches WHERE processing_status NOT IN (?, ?) ORDER BY played_at ASC, created_at ASC`,
		string(StatusCompleted), string(StatusFailed))
}

func (s *store) queryMatches(query string, args ...any) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query matches", "error", err)
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// UpdateProcessingStatus transitions a match to a new state.
func (s *store) UpdateProcessingStatus(matchID string, status ProcessingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE matches SET processing_status = ? WHERE id = ?", string(status), matchID)
	if err != nil {
		return fmt.Errorf("failed to update status of %s: %w", matchID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return nil
}

func (s *store) MarkMatchFailed(matchID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE matches SET processing_status = ?, failure_reason = ? WHERE id = ?", string(StatusFailed), reason, matchID)
	if err != nil {
		return fmt.Errorf("failed to mark %s failed: %w", matchID, err)
	}
	return nil
}

// ApplyMatchResult writes the new ratings, points and records of every player
// in the match, appends the rating history and moves the match to RATED, all
// in one transaction. A match can only be applied once.
func (s *store) ApplyMatchResult(matchID string, changes []RatingChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, c := range changes {
		var win, loss, draw int
		switch c.Result {
		case rating.Win:
			win = 1
		case rating.Loss:
			loss = 1
		case rating.Draw:
			draw = 1
		default:
			return fmt.Errorf("%w: result %q for player %s", rating.ErrInvalidArgument, c.Result, c.PlayerID)
		}

		res, err := tx.Exec(`
			UPDATE players SET
				rating = ?,
				points = points + ?,
				wins = wins + ?,
				losses = losses + ?,
				draws = draws + ?,
				matches_played = matches_played + 1
			WHERE id = ?`, c.NewRating, c.PointsAwarded, win, loss, draw, c.PlayerID)
		if err != nil {
			return fmt.Errorf("failed to update player %s: %w", c.PlayerID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrPlayerNotFound, c.PlayerID)
		}

		_, err = tx.Exec(`
			INSERT INTO rating_history (match_id, player_id, old_rating, rating_change, new_rating, points_awarded, strategy, k_factor, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			matchID, c.PlayerID, c.OldRating, c.Change, c.NewRating, c.PointsAwarded, c.Strategy, c.KFactor, now.Unix())
		if err != nil {
			return fmt.Errorf("failed to record rating history for %s: %w", c.PlayerID, err)
		}
	}

	res, err := tx.Exec("UPDATE matches SET processing_status = ? WHERE id = ?", string(StatusRated), matchID)
	if err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match result: %w", err)
	}
	log.Info("Applied match result", "matchID", matchID, "players", len(changes))
	return nil
}

// GetRatingHistory returns the player's rating changes, newest first.
func (s *store) GetRatingHistory(playerID string, limit int) ([]RatingChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT h.match_id, h.player_id, h.old_rating, h.rating_change, h.new_rating, h.points_awarded, h.strategy, h.k_factor, h.created_at,
			m.outcome, m.side_a_json
		FROM rating_history h
		JOIN matches m ON m.id = h.match_id
		WHERE h.player_id = ?
		ORDER BY m.played_at DESC, h.created_at DESC
		LIMIT ?`, playerID, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query rating history: %w", err)
	}
	defer rows.Close()

	var history []RatingChange
	for rows.Next() {
		var c RatingChange
		var createdAt int64
		var outcome, sideAJSON string
		if err := rows.Scan(&c.MatchID, &c.PlayerID, &c.OldRating, &c.Change, &c.NewRating, &c.PointsAwarded,
			&c.Strategy, &c.KFactor, &createdAt, &outcome, &sideAJSON); err != nil {
			return nil, fmt.Errorf("failed to scan rating history: %w", err)
		}
		c.CreatedAt = time.Unix(createdAt, 0)

		var sideA []string
		if err := json.Unmarshal([]byte(sideAJSON), &sideA); err != nil {
			log.Error("Failed to unmarshal side_a_json", "error", err, "matchID", c.MatchID)
		}
		c.Result = resultFor(playerID, sideA, rating.Outcome(outcome))
		history = append(history, c)
	}
	return history, rows.Err()
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}
	defer tx.Rollback()

	for _, table := range []string{"rating_history", "matches", "players", "metrics"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func (s *store) ClearMatch(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM matches WHERE id = ?", matchID)
	if err != nil {
		log.Error("Failed to clear match", "error", err, "matchID", matchID)
	}
}

// resultFor flips the match outcome for players on side B.
func resultFor(playerID string, sideA []string, outcome rating.Outcome) rating.Outcome {
	for _, id := range sideA {
		if id == playerID {
			return outcome
		}
	}
	switch outcome {
	case rating.Win:
		return rating.Loss
	case rating.Loss:
		return rating.Win
	}
	return outcome
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (*Player, error) {
	var p Player
	var slackID sql.NullString
	var createdAt int64
	err := row.Scan(&p.ID, &p.Name, &slackID, &p.Rating, &p.Points, &p.Wins, &p.Losses, &p.Draws,
		&p.MatchesPlayed, &p.Tier, &createdAt)
	if err != nil {
		return nil, err
	}
	p.SlackUserID = slackID.String
	p.CreatedAt = time.Unix(createdAt, 0)
	return &p, nil
}

func scanPlayers(rows *sql.Rows) ([]Player, error) {
	defer rows.Close()
	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func scanMatch(row scanner) (*Match, error) {
	var m Match
	var externalID sql.NullString
	var format, outcome, status, sideA, sideB string
	var playedAt, createdAt int64
	err := row.Scan(&m.ID, &externalID, &m.Source, &format, &outcome, &sideA, &sideB,
		&playedAt, &createdAt, &status, &m.FailureReason)
	if err != nil {
		return nil, err
	}
	m.ExternalID = externalID.String
	m.Format = rating.GameFormat(format)
	m.Outcome = rating.Outcome(outcome)
	m.ProcessingStatus = ProcessingStatus(status)
	m.PlayedAt = time.Unix(playedAt, 0)
	m.CreatedAt = time.Unix(createdAt, 0)
	if err := json.Unmarshal([]byte(sideA), &m.SideA); err != nil {
		return nil, fmt.Errorf("failed to unmarshal side_a_json: %w", err)
	}
	if err := json.Unmarshal([]byte(sideB), &m.SideB); err != nil {
		return nil, fmt.Errorf("failed to unmarshal side_b_json: %w", err)
	}
	return &m, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func ToAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
