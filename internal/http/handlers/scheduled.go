package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/playtomic"
)

// MatchImporter pulls finished matches from an external booking system.
type MatchImporter interface {
	Import(ctx context.Context, daysBack int, dryRun bool) (playtomic.ImportResult, error)
}

// MatchProcessor advances stored matches through the completion workflow.
type MatchProcessor interface {
	ProcessMatches(dryRun bool)
}

// FetchMatchesHandler imports the last `days` days of matches. Without the
// parameter defaultDays is used.
func FetchMatchesHandler(importer MatchImporter, defaultDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting match fetch...")
		days := intParam(r, "days", defaultDays)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
		defer cancel()
		result, err := importer.Import(ctx, days, IsDryRunFromContext(r))
		if err != nil {
			writeError(w, "Failed to fetch matches", err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func ProcessMatchesHandler(processor MatchProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting match processing...")
		processor.ProcessMatches(IsDryRunFromContext(r))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Match processing completed.\n"))
		log.Info("Match processing finished.")
	}
}
