package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/tier"
)

const suggestedPartners = 5

func LeaderboardCommandHandler(store club.ClubStore, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.GetLeaderboard(defaultLeaderboardSize)
		if err != nil {
			writeError(w, "Failed to get leaderboard", err)
			return
		}

		msg, err := notifier.FormatLeaderboardResponse(players)
		if err != nil {
			writeError(w, "Failed to format leaderboard", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// TierCommandHandler answers `/tier [name]` with the tier progress of the
// named player, or of the caller when no name is given.
func TierCommandHandler(store club.ClubStore, notifier notifier.Notifier, classifier *tier.Classifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, query, ok := commandPlayer(w, r, store, notifier)
		if !ok {
			return
		}
		log.Info("Received tier command", "query", query, "playerID", player.ID)

		progress := classifier.Progress(player.Points, player.Wins, player.Losses)
		msg, err := notifier.FormatPlayerProgressResponse(player, progress)
		if err != nil {
			writeError(w, "Failed to format tier progress", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// PartnersCommandHandler answers `/partners [name]` with the most even
// opponents for the player.
func PartnersCommandHandler(store club.ClubStore, notifier notifier.Notifier, matchmakingService matchmaking.MatchmakingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, query, ok := commandPlayer(w, r, store, notifier)
		if !ok {
			return
		}
		log.Info("Received partners command", "query", query, "playerID", player.ID)

		suggestions, err := matchmakingService.SuggestPartners(player.ID, suggestedPartners)
		if err != nil {
			writeError(w, "Failed to suggest partners", err)
			return
		}
		msg, err := notifier.FormatPartnerSuggestionsResponse(player, suggestions)
		if err != nil {
			writeError(w, "Failed to format partner suggestions", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// commandPlayer resolves the player a slash command is about. The text names
// the player; empty text means the Slack user who ran the command. When no
// player is found the not-found response is written and ok is false.
func commandPlayer(w http.ResponseWriter, r *http.Request, store club.ClubStore, notifier notifier.Notifier) (player *club.Player, query string, ok bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return nil, "", false
	}

	query = strings.TrimSpace(r.FormValue("text"))
	var err error
	if query == "" {
		userID := r.FormValue("user_id")
		if userID == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return nil, "", false
		}
		query = r.FormValue("user_name")
		player, err = store.GetPlayerBySlackID(userID)
	} else {
		player, err = lookupPlayer(store, query)
	}

	if err == nil {
		return player, query, true
	}
	if !errors.Is(err, club.ErrPlayerNotFound) {
		writeError(w, "Failed to find player", err)
		return nil, "", false
	}

	log.Warn("Could not find player", "query", query, "error", err)
	var suggestions []club.PlayerSuggestion
	if players, err := store.GetAllPlayers(); err == nil {
		suggestions = club.SuggestPlayers(query, players, 3)
	}
	msg, err := notifier.FormatPlayerNotFoundResponse(query, suggestions)
	if err != nil {
		writeError(w, "Failed to format response", err)
		return nil, "", false
	}
	respondWithSlackMsg(w, msg)
	return nil, "", false
}
