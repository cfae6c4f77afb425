package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/rating"
)

var errPlayerRequired = fmt.Errorf("%w: player is required", rating.ErrInvalidArgument)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeError maps domain errors onto status codes.
func writeError(w http.ResponseWriter, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, rating.ErrInvalidArgument), errors.Is(err, club.ErrInvalidPlayer):
		status = http.StatusBadRequest
	case errors.Is(err, club.ErrPlayerNotFound),
		errors.Is(err, club.ErrMatchNotFound),
		errors.Is(err, matchmaking.ErrMatchRequestNotFound):
		status = http.StatusNotFound
	case errors.Is(err, matchmaking.ErrNotEnoughPlayers):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Error(msg, "error", err)
	} else {
		log.Warn(msg, "error", err)
	}
	http.Error(w, msg+": "+err.Error(), status)
}

// respondWithSlackMsg writes a formatted Slack message as the slash command
// response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	writeJSON(w, http.StatusOK, msg)
}

// lookupPlayer resolves a query as a player ID first and as a name second.
func lookupPlayer(store club.ClubStore, query string) (*club.Player, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errPlayerRequired
	}
	if p, err := store.GetPlayer(query); err == nil {
		return p, nil
	} else if !errors.Is(err, club.ErrPlayerNotFound) {
		return nil, err
	}
	return store.GetPlayerByName(query)
}

// intParam reads a non-negative integer query parameter, falling back to def
// when it is missing or malformed.
func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Warn("Invalid query parameter, using default", "param", name, "value", raw, "default", def)
		return def
	}
	return v
}
