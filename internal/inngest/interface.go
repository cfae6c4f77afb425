package inngest

import (
	"context"
	"net/http"

	"github.com/mauv0809/courtside/internal/notifier"
)

type InngestClient interface {
	Serve() http.Handler
	SendRecalculateTiers(ctx context.Context, matchID string, playerIDs []string) error
}

// TierRecalculator is the processor side of the tier recalculation.
type TierRecalculator interface {
	RecalculateTiers(playerIDs []string, dryRun bool) ([]notifier.TierChange, error)
}
