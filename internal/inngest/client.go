package inngest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"github.com/mauv0809/courtside/internal/config"
)

// NewProvider builds the Inngest SDK client from configuration.
func NewProvider(cfg config.InngestConfig, dev bool) (inngestgo.Client, error) {
	opts := inngestgo.ClientOpts{
		AppID: cfg.AppID,
		Dev:   &dev,
	}
	if cfg.SigningKey != "" {
		opts.SigningKey = &cfg.SigningKey
	}
	if cfg.EventKey != "" {
		opts.EventKey = &cfg.EventKey
	}
	c, err := inngestgo.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create inngest client: %w", err)
	}
	return c, nil
}

// New registers the tier recalculation function on inngestClient.
func New(inngestClient inngestgo.Client, recalculator TierRecalculator) (InngestClient, error) {
	c := &client{
		inngestClient: inngestClient,
		recalculator:  recalculator,
	}
	if _, err := c.createRecalculateTiersFunction(); err != nil {
		return nil, err
	}
	return c, nil
}

func (i *client) createRecalculateTiersFunction() (inngestgo.ServableFunction, error) {
	retries := 3
	opts := inngestgo.FunctionOpts{
		ID:      "recalculate-tiers",
		Name:    "Recalculate player tiers",
		Retries: &retries,
	}
	f, err := inngestgo.CreateFunction(
		i.inngestClient,
		opts,
		inngestgo.EventTrigger(EventRecalculateTiers, nil),
		func(ctx context.Context, input inngestgo.Input[RecalculateTiersData]) (any, error) {
			data := input.Event.Data
			// The step result is memoized, so a retry after a later failure
			// does not announce the same promotion twice.
			return step.Run(ctx, "recalculate", func(ctx context.Context) (RecalculateTiersResult, error) {
				return recalculate(i.recalculator, data)
			})
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create function: %w", err)
	}
	return f, nil
}

func recalculate(recalculator TierRecalculator, data RecalculateTiersData) (RecalculateTiersResult, error) {
	result := RecalculateTiersResult{
		MatchID:  data.MatchID,
		Checked:  len(data.PlayerIDs),
		Promoted: []string{},
		Demoted:  []string{},
	}
	changes, err := recalculator.RecalculateTiers(data.PlayerIDs, data.DryRun)
	if err != nil {
		return result, fmt.Errorf("failed to recalculate tiers for match %s: %w", data.MatchID, err)
	}
	for _, change := range changes {
		if change.Promoted {
			result.Promoted = append(result.Promoted, change.Player.ID)
		} else {
			result.Demoted = append(result.Demoted, change.Player.ID)
		}
	}
	log.Info("Recalculated tiers", "matchID", data.MatchID, "checked", result.Checked, "promoted", len(result.Promoted), "demoted", len(result.Demoted))
	return result, nil
}

func (i *client) Serve() http.Handler {
	return i.inngestClient.Serve()
}

func (i *client) SendRecalculateTiers(ctx context.Context, matchID string, playerIDs []string) error {
	id, err := i.inngestClient.Send(ctx, inngestgo.Event{
		Name: EventRecalculateTiers,
		Data: map[string]any{
			"match_id":   matchID,
			"player_ids": playerIDs,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send %s event: %w", EventRecalculateTiers, err)
	}
	log.Debug("Sent inngest event", "event", EventRecalculateTiers, "id", id, "matchID", matchID)
	return nil
}
