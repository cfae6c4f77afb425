package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/rating"
)

// CreateMatchRequestBody is the POST /match-requests body.
type CreateMatchRequestBody struct {
	RequesterID string            `json:"requester_id"`
	ChannelID   string            `json:"channel_id"`
	Format      rating.GameFormat `json:"format,omitempty"`
}

// AvailabilityBody replaces a player's available days for a request.
type AvailabilityBody struct {
	RequestID string   `json:"request_id"`
	PlayerID  string   `json:"player_id"`
	Dates     []string `json:"dates"`
}

type ProposeMatchBody struct {
	RequestID string `json:"request_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// MatchRequestsHandler lists the open match requests on GET and opens one on
// POST.
func MatchRequestsHandler(mm matchmaking.MatchmakingService, store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			requests, err := mm.GetActiveMatchRequests()
			if err != nil {
				writeError(w, "Failed to get match requests", err)
				return
			}
			if requests == nil {
				requests = []matchmaking.MatchRequest{}
			}
			writeJSON(w, http.StatusOK, requests)
		case http.MethodPost:
			var body CreateMatchRequestBody
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			requester, err := lookupPlayer(store, body.RequesterID)
			if err != nil {
				writeError(w, "Failed to find requester", err)
				return
			}
			if IsDryRunFromContext(r) {
				log.Info("[Dry Run] Would open match request", "requester", requester.Name, "format", body.Format)
				w.WriteHeader(http.StatusOK)
				return
			}
			request, err := mm.CreateMatchRequest(requester.ID, requester.Name, body.ChannelID, body.Format)
			if err != nil {
				writeError(w, "Failed to create match request", err)
				return
			}
			writeJSON(w, http.StatusCreated, request)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// AvailabilityHandler records the days a club member can play for a request.
func AvailabilityHandler(mm matchmaking.MatchmakingService, store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body AvailabilityBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		player, err := lookupPlayer(store, body.PlayerID)
		if err != nil {
			writeError(w, "Failed to find player", err)
			return
		}
		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would record availability", "requestID", body.RequestID, "player", player.Name, "dates", body.Dates)
			w.WriteHeader(http.StatusOK)
			return
		}
		if _, err := mm.GetMatchRequest(body.RequestID); err != nil {
			writeError(w, "Failed to get match request", err)
			return
		}
		if err := mm.RecordPlayerAvailability(body.RequestID, player.ID, player.Name, body.Dates); err != nil {
			writeError(w, "Failed to record availability", err)
			return
		}
		availability, err := mm.AnalyzeAvailability(body.RequestID)
		if err != nil {
			writeError(w, "Failed to analyze availability", err)
			return
		}
		writeJSON(w, http.StatusOK, availability)
	}
}

// ProposeMatchHandler picks the line-up for a date and announces it in the
// request's channel. In dry run the availability is returned instead.
func ProposeMatchHandler(mm matchmaking.MatchmakingService, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body ProposeMatchBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if IsDryRunFromContext(r) {
			availability, err := mm.AnalyzeAvailability(body.RequestID)
			if err != nil {
				writeError(w, "Failed to analyze availability", err)
				return
			}
			log.Info("[Dry Run] Would propose match", "requestID", body.RequestID, "date", body.Date)
			writeJSON(w, http.StatusOK, availability)
			return
		}

		proposal, err := mm.ProposeMatch(body.RequestID, body.Date, body.StartTime, body.EndTime)
		if err != nil {
			writeError(w, "Failed to propose match", err)
			return
		}
		request, err := mm.GetMatchRequest(body.RequestID)
		if err != nil {
			writeError(w, "Failed to get match request", err)
			return
		}
		// the proposal is stored either way
		if err := notifier.SendMatchProposal(request, proposal, false); err != nil {
			log.Warn("Failed to announce match proposal", "requestID", request.ID, "error", err)
		}
		writeJSON(w, http.StatusOK, proposal)
	}
}

// MatchRequestStatusHandler confirms or cancels a request with
// ?request_id=...&action=confirm|cancel.
func MatchRequestStatusHandler(mm matchmaking.MatchmakingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		requestID := r.URL.Query().Get("request_id")
		action := r.URL.Query().Get("action")

		var update func(string) error
		switch action {
		case "confirm":
			update = mm.ConfirmMatch
		case "cancel":
			update = mm.CancelMatchRequest
		default:
			writeError(w, "Invalid action", fmt.Errorf("%w: action %q", rating.ErrInvalidArgument, action))
			return
		}
		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would update match request", "requestID", requestID, "action", action)
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := update(requestID); err != nil {
			writeError(w, "Failed to update match request", err)
			return
		}
		request, err := mm.GetMatchRequest(requestID)
		if err != nil {
			writeError(w, "Failed to get match request", err)
			return
		}
		writeJSON(w, http.StatusOK, request)
	}
}
