package inngest

import (
	"github.com/inngest/inngestgo"
)

// EventRecalculateTiers triggers the durable tier recalculation.
const EventRecalculateTiers = "courtside/tiers.recalculate"

type client struct {
	inngestClient inngestgo.Client
	recalculator  TierRecalculator
}

// RecalculateTiersData is the payload for our events.
type RecalculateTiersData struct {
	MatchID   string   `json:"match_id"`
	PlayerIDs []string `json:"player_ids"`
	DryRun    bool     `json:"dry_run"`
}

// RecalculateTiersResult is what a function run reports back to Inngest.
type RecalculateTiersResult struct {
	MatchID  string   `json:"match_id"`
	Checked  int      `json:"checked"`
	Promoted []string `json:"promoted"`
	Demoted  []string `json:"demoted"`
}
