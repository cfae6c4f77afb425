package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/pubsub"
)

// TierRecalculator reclassifies players after their record changed.
type TierRecalculator interface {
	RecalculateTiers(playerIDs []string, dryRun bool) ([]notifier.TierChange, error)
}

// DurableDispatcher hands a recalculation to a durable job runner instead of
// running it inline.
type DurableDispatcher interface {
	SendRecalculateTiers(ctx context.Context, matchID string, playerIDs []string) error
}

// RecalculateTiersHandler consumes the Pub/Sub push for a rated match. With a
// dispatcher configured the work is forwarded, otherwise it runs inline. A
// non-2xx response makes Pub/Sub redeliver.
func RecalculateTiersHandler(recalculator TierRecalculator, pubsubClient pubsub.PubSubClient, dispatcher DurableDispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received recalculate tiers message", "body", string(bodyBytes))

		rawData, err := pubsub.DecodePush(bodyBytes)
		if err != nil {
			log.Error("Failed to unwrap push request", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var msg pubsub.RecalculateTiersMessage
		if err := pubsubClient.Decode(rawData, &msg); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		isDryRun := IsDryRunFromContext(r)
		if dispatcher != nil && !isDryRun {
			ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
			defer cancel()
			if err := dispatcher.SendRecalculateTiers(ctx, msg.MatchID, msg.PlayerIDs); err != nil {
				log.Error("Failed to dispatch tier recalculation", "error", err, "matchID", msg.MatchID)
				http.Error(w, "Failed to dispatch tier recalculation", http.StatusInternalServerError)
				return
			}
			w.Write([]byte("OK"))
			return
		}

		changes, err := recalculator.RecalculateTiers(msg.PlayerIDs, isDryRun)
		if err != nil {
			writeError(w, "Failed to recalculate tiers", err)
			return
		}
		log.Info("Recalculated tiers", "matchID", msg.MatchID, "players", len(msg.PlayerIDs), "changes", len(changes))
		w.Write([]byte("OK"))
	}
}
