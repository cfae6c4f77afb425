package matchmaking

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/rating"
)

const requestColumns = `id, requester_id, requester_name, format, created_at, updated_at, status, channel_id,
	proposed_date, proposed_start_time, proposed_end_time,
	booking_responsible_id, booking_responsible_name, team_assignments_blob`

// store handles database operations for matchmaking
type store struct {
	db   *sql.DB
	club club.ClubStore
	mu   sync.RWMutex
}

// NewStore creates a new matchmaking store. Ratings and match counts for
// line-ups are read from clubStore.
func NewStore(db *sql.DB, clubStore club.ClubStore) MatchmakingService {
	return &store{
		db:   db,
		club: clubStore,
	}
}

// CreateMatchRequest creates a new match request. An empty format means doubles.
func (s *store) CreateMatchRequest(requesterID, requesterName, channelID string, format rating.GameFormat) (*MatchRequest, error) {
	if format == "" {
		format = rating.Doubles
	}
	if format.PlayersPerSide() == 0 {
		return nil, fmt.Errorf("%w: unknown game format %q", rating.ErrInvalidArgument, format)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	request := &MatchRequest{
		ID:            uuid.New().String(),
		RequesterID:   requesterID,
		RequesterName: requesterName,
		Format:        format,
		CreatedAt:     now,
		UpdatedAt:     now,
		Status:        StatusCollectingAvailability,
		ChannelID:     channelID,
	}

	_, err := s.db.Exec(`
		INSERT INTO match_requests (
			id, requester_id, requester_name, format, created_at, updated_at, status, channel_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		request.ID,
		request.RequesterID,
		request.RequesterName,
		string(request.Format),
		request.CreatedAt.Unix(),
		request.UpdatedAt.Unix(),
		string(request.Status),
		request.ChannelID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create match request: %w", err)
	}

	log.Info("Created match request", "id", request.ID, "requester", requesterName, "format", format)
	return request, nil
}

// GetMatchRequest retrieves a match request by ID
func (s *store) GetMatchRequest(requestID string) (*MatchRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMatchRequest(requestID)
}

func (s *store) getMatchRequest(requestID string) (*MatchRequest, error) {
	request, err := scanMatchRequest(s.db.QueryRow(`SELECT `+requestColumns+` FROM match_requests WHERE id = ?`, requestID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrMatchRequestNotFound, requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match request: %w", err)
	}
	return request, nil
}

// RecordPlayerAvailability records a player's availability for specific dates
func (s *store) RecordPlayerAvailability(requestID, playerID, playerName string, availableDates []string) error {
	for _, date := range availableDates {
		if err := validateDate(date); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Delete existing availability for this player and request
	_, err = tx.Exec(`DELETE FROM match_request_availability WHERE match_request_id = ? AND player_id = ?`, requestID, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete existing availability: %w", err)
	}

	now := time.Now()
	for _, date := range availableDates {
		_, err = tx.Exec(`
			INSERT INTO match_request_availability (match_request_id, player_id, player_name, available_date, responded_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (match_request_id, player_id, available_date) DO NOTHING
		`, requestID, playerID, playerName, date, now.Unix())
		if err != nil {
			return fmt.Errorf("failed to insert availability for date %s: %w", date, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit availability transaction: %w", err)
	}

	log.Info("Recorded player availability", "request_id", requestID, "player", playerName, "dates", availableDates)
	return nil
}

// AddPlayerAvailability adds a day to a player's availability. Adding a day
// twice is a no-op.
func (s *store) AddPlayerAvailability(requestID, playerID, playerName, day string) error {
	if err := validateDate(day); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO match_request_availability (match_request_id, player_id, player_name, available_date, responded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (match_request_id, player_id, available_date) DO NOTHING
	`, requestID, playerID, playerName, day, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to insert player availability: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		log.Debug("Player availability already exists", "requestID", requestID, "playerID", playerID, "day", day)
		return nil
	}
	log.Info("Added player availability", "requestID", requestID, "playerID", playerID, "playerName", playerName, "day", day)
	return nil
}

// RemovePlayerAvailability removes a day from a player's availability
func (s *store) RemovePlayerAvailability(requestID, playerID, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(`
		DELETE FROM match_request_availability
		WHERE match_request_id = ? AND player_id = ? AND available_date = ?
	`, requestID, playerID, day)
	if err != nil {
		return fmt.Errorf("failed to remove player availability: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Debug("No availability found to remove", "requestID", requestID, "playerID", playerID, "day", day)
	} else {
		log.Info("Removed player availability", "requestID", requestID, "playerID", playerID, "day", day)
	}
	return nil
}

// GetPlayerAvailability gets all availability responses for a match request
// in the order they came in.
func (s *store) GetPlayerAvailability(requestID string) ([]PlayerAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getPlayerAvailability(requestID)
}

func (s *store) getPlayerAvailability(requestID string) ([]PlayerAvailability, error) {
	rows, err := s.db.Query(`
		SELECT id, match_request_id, player_id, player_name, available_date, responded_at
		FROM match_request_availability
		WHERE match_request_id = ?
		ORDER BY responded_at ASC, id ASC
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	var availabilities []PlayerAvailability
	for rows.Next() {
		var availability PlayerAvailability
		var respondedAt int64

		err := rows.Scan(
			&availability.ID,
			&availability.MatchRequestID,
			&availability.PlayerID,
			&availability.PlayerName,
			&availability.AvailableDate,
			&respondedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability row: %w", err)
		}

		availability.RespondedAt = time.Unix(respondedAt, 0)
		availabilities = append(availabilities, availability)
	}
	return availabilities, rows.Err()
}

// AnalyzeAvailability groups responses by date, most players first and then
// earliest date.
func (s *store) AnalyzeAvailability(requestID string) ([]AvailabilityResult, error) {
	availabilities, err := s.GetPlayerAvailability(requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get availabilities: %w", err)
	}

	dateGroups := make(map[string][]Player)
	for _, availability := range availabilities {
		dateGroups[availability.AvailableDate] = append(dateGroups[availability.AvailableDate], Player{
			ID:   availability.PlayerID,
			Name: availability.PlayerName,
		})
	}

	results := make([]AvailabilityResult, 0, len(dateGroups))
	for date, players := range dateGroups {
		results = append(results, AvailabilityResult{
			Date:             date,
			AvailablePlayers: players,
			PlayerCount:      len(players),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].PlayerCount != results[j].PlayerCount {
			return results[i].PlayerCount > results[j].PlayerCount
		}
		return results[i].Date < results[j].Date
	})
	return results, nil
}

// ProposeMatch takes the earliest responders for date, splits them into the
// most even line-up and hands the booking to whoever has played the fewest
// matches.
func (s *store) ProposeMatch(requestID, date, startTime, endTime string) (*MatchProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, err := s.getMatchRequest(requestID)
	if err != nil {
		return nil, err
	}
	availabilities, err := s.getPlayerAvailability(requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get availabilities: %w", err)
	}

	var candidates []candidate
	for _, availability := range availabilities {
		if availability.AvailableDate != date {
			continue
		}
		candidates = append(candidates, s.lookupCandidate(availability))
	}

	need := 2 * request.Format.PlayersPerSide()
	if len(candidates) < need {
		return nil, fmt.Errorf("%w for date %s: have %d, need %d", ErrNotEnoughPlayers, date, len(candidates), need)
	}

	lineup := candidates[:need]
	teams, winProbability := balanceTeams(lineup)
	booker := bookingResponsible(lineup)

	availablePlayers := make([]Player, len(candidates))
	for i, c := range candidates {
		availablePlayers[i] = c.Player
	}

	teamAssignmentsBlob, err := json.Marshal(teams)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal team assignments: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE match_requests
		SET proposed_date = ?, proposed_start_time = ?, proposed_end_time = ?,
			booking_responsible_id = ?, booking_responsible_name = ?,
			team_assignments_blob = ?, status = ?, updated_at = ?
		WHERE id = ?
	`,
		date, startTime, endTime,
		booker.ID, booker.Name,
		teamAssignmentsBlob, string(StatusProposingMatch), time.Now().Unix(),
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update match request with proposal: %w", err)
	}

	proposal := &MatchProposal{
		Date:                   date,
		StartTime:              startTime,
		EndTime:                endTime,
		Format:                 request.Format,
		AvailablePlayers:       availablePlayers,
		TeamAssignments:        teams,
		WinProbability:         winProbability,
		BookingResponsibleID:   booker.ID,
		BookingResponsibleName: booker.Name,
	}

	log.Info("Proposed match", "request_id", requestID, "date", date, "players", len(candidates), "winProbability", winProbability)
	return proposal, nil
}

type candidate struct {
	Player
	matchesPlayed int
}

// lookupCandidate enriches a response with the player's club record. Players
// the club does not know yet count as new at the initial rating.
func (s *store) lookupCandidate(a PlayerAvailability) candidate {
	c := candidate{Player: Player{ID: a.PlayerID, Name: a.PlayerName, Rating: rating.InitialRating}}
	p, err := s.club.GetPlayer(a.PlayerID)
	if err != nil {
		if !errors.Is(err, club.ErrPlayerNotFound) {
			log.Warn("Failed to look up player for line-up", "playerID", a.PlayerID, "error", err)
		}
		return c
	}
	c.Rating = p.Rating
	c.matchesPlayed = p.MatchesPlayed
	return c
}

// balanceTeams keeps lineup[0] on Team1 and picks the split whose win
// probability is closest to even. Ties go to the earlier split.
func balanceTeams(lineup []candidate) (TeamAssignments, float64) {
	if len(lineup) == 2 {
		p := rating.WinProbability(lineup[0].Rating, lineup[1].Rating)
		return TeamAssignments{
			Team1: []Player{lineup[0].Player},
			Team2: []Player{lineup[1].Player},
		}, p
	}

	splits := [][2][2]int{
		{{0, 1}, {2, 3}},
		{{0, 2}, {1, 3}},
		{{0, 3}, {1, 2}},
	}
	var best TeamAssignments
	bestP := 0.0
	bestGap := math.Inf(1)
	for _, split := range splits {
		t1 := rating.TeamRating{lineup[split[0][0]].Rating, lineup[split[0][1]].Rating}
		t2 := rating.TeamRating{lineup[split[1][0]].Rating, lineup[split[1][1]].Rating}
		p := rating.WinProbability(t1.Average(), t2.Average())
		if gap := math.Abs(p - 0.5); gap < bestGap {
			bestGap = gap
			bestP = p
			best = TeamAssignments{
				Team1: []Player{lineup[split[0][0]].Player, lineup[split[0][1]].Player},
				Team2: []Player{lineup[split[1][0]].Player, lineup[split[1][1]].Player},
			}
		}
	}
	return best, bestP
}

func bookingResponsible(lineup []candidate) Player {
	booker := lineup[0]
	for _, c := range lineup[1:] {
		if c.matchesPlayed < booker.matchesPlayed {
			booker = c
		}
	}
	return booker.Player
}

// ConfirmMatch confirms a proposed match
func (s *store) ConfirmMatch(requestID string) error {
	return s.UpdateMatchRequestStatus(requestID, StatusConfirmed)
}

// CancelMatchRequest cancels a match request
func (s *store) CancelMatchRequest(requestID string) error {
	return s.UpdateMatchRequestStatus(requestID, StatusCancelled)
}

// UpdateMatchRequestStatus updates the status of a match request
func (s *store) UpdateMatchRequestStatus(requestID string, status MatchRequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE match_requests SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().Unix(), requestID)
	if err != nil {
		return fmt.Errorf("failed to update match request status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrMatchRequestNotFound, requestID)
	}

	log.Info("Updated match request status", "id", requestID, "status", status)
	return nil
}

// GetActiveMatchRequests gets all active match requests, newest first
func (s *store) GetActiveMatchRequests() ([]MatchRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+requestColumns+`
		FROM match_requests
		WHERE status IN (?, ?)
		ORDER BY created_at DESC, rowid DESC
	`, string(StatusCollectingAvailability), string(StatusProposingMatch))
	if err != nil {
		return nil, fmt.Errorf("failed to query active match requests: %w", err)
	}
	defer rows.Close()

	var requests []MatchRequest
	for rows.Next() {
		request, err := scanMatchRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match request row: %w", err)
		}
		requests = append(requests, *request)
	}
	return requests, rows.Err()
}

// SuggestPartners ranks every other club player by how close a match against
// them would be to even. limit <= 0 returns everyone.
func (s *store) SuggestPartners(playerID string, limit int) ([]PartnerSuggestion, error) {
	player, err := s.club.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	players, err := s.club.GetAllPlayers()
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	suggestions := make([]PartnerSuggestion, 0, len(players))
	for _, p := range players {
		if p.ID == player.ID {
			continue
		}
		suggestions = append(suggestions, PartnerSuggestion{
			Player:         p,
			WinProbability: rating.WinProbability(player.Rating, p.Rating),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		gi := math.Abs(suggestions[i].WinProbability - 0.5)
		gj := math.Abs(suggestions[j].WinProbability - 0.5)
		if gi != gj {
			return gi < gj
		}
		return suggestions[i].Player.Name < suggestions[j].Player.Name
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	log.Debug("Suggested partners", "playerID", playerID, "count", len(suggestions))
	return suggestions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatchRequest(row scanner) (*MatchRequest, error) {
	var request MatchRequest
	var createdAt, updatedAt int64
	var format, status string
	var teamAssignmentsBlob []byte

	err := row.Scan(
		&request.ID,
		&request.RequesterID,
		&request.RequesterName,
		&format,
		&createdAt,
		&updatedAt,
		&status,
		&request.ChannelID,
		&request.ProposedDate,
		&request.ProposedStartTime,
		&request.ProposedEndTime,
		&request.BookingResponsibleID,
		&request.BookingResponsibleName,
		&teamAssignmentsBlob,
	)
	if err != nil {
		return nil, err
	}

	request.Format = rating.GameFormat(format)
	request.CreatedAt = time.Unix(createdAt, 0)
	request.UpdatedAt = time.Unix(updatedAt, 0)
	request.Status = MatchRequestStatus(status)

	if teamAssignmentsBlob != nil {
		var teamAssignments TeamAssignments
		if err := json.Unmarshal(teamAssignmentsBlob, &teamAssignments); err != nil {
			log.Warn("Failed to unmarshal team assignments", "error", err)
		} else {
			request.TeamAssignments = &teamAssignments
		}
	}
	return &request, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return fmt.Errorf("%w: date %q must be YYYY-MM-DD", rating.ErrInvalidArgument, date)
	}
	return nil
}
