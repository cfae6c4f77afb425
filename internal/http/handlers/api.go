package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/rating"
	"github.com/mauv0809/courtside/internal/tier"
)

const defaultLeaderboardSize = 10

// MembersHandler lists players on GET and registers one on POST.
func MembersHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			players, err := store.GetAllPlayers()
			if err != nil {
				writeError(w, "Failed to get players", err)
				return
			}
			writeJSON(w, http.StatusOK, players)
		case http.MethodPost:
			var req AddPlayerRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			player := club.Player{ID: req.ID, Name: req.Name, SlackUserID: req.SlackUserID, Rating: req.Rating}
			if IsDryRunFromContext(r) {
				log.Info("[Dry Run] Would add player", "playerID", player.ID, "name", player.Name)
				writeJSON(w, http.StatusOK, player)
				return
			}
			if err := store.AddPlayer(player); err != nil {
				writeError(w, "Failed to add player", err)
				return
			}
			stored, err := store.GetPlayer(player.ID)
			if err != nil {
				writeError(w, "Failed to read back player", err)
				return
			}
			writeJSON(w, http.StatusCreated, stored)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// MatchesHandler lists matches on GET and takes a manual match report on POST.
// Reported matches are rated by the next processing run.
func MatchesHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			matches, err := store.GetAllMatches()
			if err != nil {
				writeError(w, "Failed to get matches", err)
				return
			}
			writeJSON(w, http.StatusOK, matches)
		case http.MethodPost:
			var req ReportMatchRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			match := &club.Match{
				ExternalID: req.ExternalID,
				Source:     club.SourceManual,
				Format:     req.Format,
				Outcome:    req.Outcome,
				SideA:      req.SideA,
				SideB:      req.SideB,
				PlayedAt:   req.PlayedAt,
			}
			if err := match.Validate(); err != nil {
				writeError(w, "Invalid match report", err)
				return
			}
			if _, err := store.GetPlayers(match.PlayerIDs()); err != nil {
				writeError(w, "Invalid match report", err)
				return
			}
			if IsDryRunFromContext(r) {
				log.Info("[Dry Run] Would store match report", "format", match.Format, "outcome", match.Outcome)
				writeJSON(w, http.StatusOK, ReportMatchResponse{Match: match})
				return
			}
			inserted, err := store.InsertMatch(match)
			if err != nil {
				writeError(w, "Failed to store match", err)
				return
			}
			status := http.StatusCreated
			if !inserted {
				status = http.StatusOK
			}
			writeJSON(w, status, ReportMatchResponse{Match: match, Inserted: inserted})
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// LeaderboardHandler ranks players by rating, or by points with by=points.
// With announce=true the leaderboard is also posted to the club channel.
func LeaderboardHandler(store club.ClubStore, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := intParam(r, "limit", defaultLeaderboardSize)
		var (
			players []club.Player
			err     error
		)
		if r.URL.Query().Get("by") == "points" {
			players, err = store.GetPointsLeaderboard(limit)
		} else {
			players, err = store.GetLeaderboard(limit)
		}
		if err != nil {
			writeError(w, "Failed to get leaderboard", err)
			return
		}
		if r.URL.Query().Get("announce") == "true" {
			if err := notifier.SendLeaderboard(players, IsDryRunFromContext(r)); err != nil {
				writeError(w, "Failed to announce leaderboard", err)
				return
			}
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func ProgressHandler(store club.ClubStore, classifier *tier.Classifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("player")
		if query == "" {
			http.Error(w, "Query parameter 'player' is required", http.StatusBadRequest)
			return
		}
		player, err := lookupPlayer(store, query)
		if err != nil {
			writeError(w, "Failed to find player", err)
			return
		}
		writeJSON(w, http.StatusOK, ProgressResponse{
			Player:   *player,
			Progress: classifier.Progress(player.Points, player.Wins, player.Losses),
		})
	}
}

// PreviewHandler shows what a singles match between a and b would do to both
// ratings. Without k the K factor of the less experienced player is used.
func PreviewHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("a") == "" || q.Get("b") == "" {
			http.Error(w, "Query parameters 'a' and 'b' are required", http.StatusBadRequest)
			return
		}
		playerA, err := lookupPlayer(store, q.Get("a"))
		if err != nil {
			writeError(w, "Failed to find player a", err)
			return
		}
		playerB, err := lookupPlayer(store, q.Get("b"))
		if err != nil {
			writeError(w, "Failed to find player b", err)
			return
		}

		k := rating.RecommendKFactor(min(playerA.MatchesPlayed, playerB.MatchesPlayed))
		if raw := q.Get("k"); raw != "" {
			k, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				writeError(w, "Invalid k", fmt.Errorf("%w: k must be a number", rating.ErrInvalidArgument))
				return
			}
		}

		preview, err := buildPreview(*playerA, *playerB, k)
		if err != nil {
			writeError(w, "Failed to compute preview", err)
			return
		}
		writeJSON(w, http.StatusOK, preview)
	}
}

func buildPreview(a, b club.Player, k float64) (PreviewResponse, error) {
	preview := PreviewResponse{
		PlayerA:         a,
		PlayerB:         b,
		KFactor:         k,
		WinProbabilityA: rating.WinProbability(a.Rating, b.Rating),
		Outcomes:        make(map[rating.Outcome]rating.SinglesResult, 3),
	}
	for _, outcome := range []rating.Outcome{rating.Win, rating.Draw, rating.Loss} {
		res, err := rating.ComputeSinglesUpdate(a.Rating, b.Rating, outcome, k)
		if err != nil {
			return PreviewResponse{}, err
		}
		preview.Outcomes[outcome] = res
	}
	return preview, nil
}

func PartnersHandler(store club.ClubStore, matchmakingService matchmaking.MatchmakingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("player")
		if query == "" {
			http.Error(w, "Query parameter 'player' is required", http.StatusBadRequest)
			return
		}
		player, err := lookupPlayer(store, query)
		if err != nil {
			writeError(w, "Failed to find player", err)
			return
		}
		suggestions, err := matchmakingService.SuggestPartners(player.ID, intParam(r, "limit", 5))
		if err != nil {
			writeError(w, "Failed to suggest partners", err)
			return
		}
		writeJSON(w, http.StatusOK, suggestions)
	}
}

// AddPlayerRequest is the POST /members body. A zero rating starts the player
// at the initial rating.
type AddPlayerRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	SlackUserID string  `json:"slack_user_id,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
}

// ReportMatchRequest is the POST /matches body. Outcome is seen from side A.
type ReportMatchRequest struct {
	ExternalID string            `json:"external_id,omitempty"`
	Format     rating.GameFormat `json:"format"`
	Outcome    rating.Outcome    `json:"outcome"`
	SideA      []string          `json:"side_a"`
	SideB      []string          `json:"side_b"`
	PlayedAt   time.Time         `json:"played_at"`
}

type ReportMatchResponse struct {
	Match    *club.Match `json:"match"`
	Inserted bool        `json:"inserted"`
}

type ProgressResponse struct {
	Player   club.Player   `json:"player"`
	Progress tier.Progress `json:"progress"`
}

type PreviewResponse struct {
	PlayerA         club.Player                             `json:"player_a"`
	PlayerB         club.Player                             `json:"player_b"`
	KFactor         float64                                 `json:"k_factor"`
	WinProbabilityA float64                                 `json:"win_probability_a"`
	Outcomes        map[rating.Outcome]rating.SinglesResult `json:"outcomes"`
}
