package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/rating"
	"github.com/mauv0809/courtside/internal/tier"
)

// New creates a new Processor. A nil classifier uses the default tier table.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, cfg config.RatingConfig, classifier *tier.Classifier) *Processor {
	if classifier == nil {
		classifier = tier.Default()
	}
	return &Processor{
		store:      store,
		notifier:   notifier,
		metrics:    metrics,
		pubsub:     pubsub,
		classifier: classifier,
		simple:     rating.NewSimpleStrategy(cfg.SimpleKFactor),
		teamAware:  rating.NewTeamAwareStrategy(cfg.SinglesKFactor, cfg.DoublesKFactor),
		points:     cfg,
		now:        time.Now,
	}
}

// ProcessMatches fetches matches that need processing and advances them through the state machine.
func (p *Processor) ProcessMatches(dryRun bool) {
	log.Info("Starting match processing...")
	matches, err := p.store.GetMatchesForProcessing()
	if err != nil {
		log.Error("Failed to get matches for processing", "error", err)
		return
	}

	if len(matches) == 0 {
		log.Info("No matches to process.")
		return
	}

	log.Info("Found matches to process", "count", len(matches))
	// Ratings must be applied in play order. Once a NEW match is stuck, later
	// NEW matches wait for the next run; already rated ones may still advance.
	var stuck *club.Match
	for _, match := range matches {
		if stuck != nil && match.ProcessingStatus == club.StatusNew {
			log.Info("Deferring match until an earlier match is rated", "matchID", match.ID, "blockedBy", stuck.ID)
			continue
		}
		startTime := time.Now()
		if !p.processMatch(match, dryRun) {
			stuck = match
		}
		p.metrics.ObserveProcessingDuration(float64(time.Since(startTime).Milliseconds()))
	}
	log.Info("Match processing finished.")
}

// processMatch reports false when a NEW match could not be rated and should be
// retried.
func (p *Processor) processMatch(match *club.Match, dryRun bool) bool {
	log.Info("Processing match", "matchID", match.ID, "initial_status", match.ProcessingStatus, "format", match.Format)
	var summary *notifier.MatchSummary
	for {
		currentState := match.ProcessingStatus
		log.Debug("Evaluating match state", "matchID", match.ID, "status", currentState)

		switch currentState {
		case club.StatusNew:
			s, err := p.RateMatch(match, dryRun)
			if err != nil {
				if isPermanent(err) {
					p.fail(match, err, dryRun)
					return true
				}
				log.Error("Failed to rate match, will retry", "error", err, "matchID", match.ID)
				return false
			}
			summary = s
			// ApplyMatchResult already moved the stored match to RATED.
			match.ProcessingStatus = club.StatusRated

		case club.StatusRated:
			if p.now().Sub(match.PlayedAt) < notifyWindow {
				if summary == nil {
					summary = p.loadSummary(match)
				}
				if err := p.notifier.SendResultNotification(summary, dryRun); err != nil {
					log.Error("Failed to send result notification", "error", err, "matchID", match.ID)
				}
			} else {
				log.Info("Match is older than a day. Skipping result notification.", "matchID", match.ID, "playedAt", match.PlayedAt)
			}
			p.updateStatus(match, club.StatusNotified, dryRun)

		case club.StatusNotified:
			if !p.publishRated(match, summary, dryRun) {
				return true
			}
			p.updateStatus(match, club.StatusCompleted, dryRun)

		case club.StatusCompleted, club.StatusFailed:
			log.Debug("Match is done. No further processing needed.", "matchID", match.ID, "status", currentState)
			return true

		default:
			log.Warn("Unknown processing status", "status", currentState, "matchID", match.ID)
			return true
		}

		// If the status hasn't changed, we're done with this match for now.
		if match.ProcessingStatus == currentState {
			log.Debug("Match state did not change. Finished processing for now.", "matchID", match.ID, "status", currentState)
			break
		}
	}
	log.Info("Finished processing match", "matchID", match.ID, "final_status", match.ProcessingStatus)
	return true
}

// RateMatch runs the rating strategy over a NEW match, awards points and
// persists the result, which moves the match to RATED. In dry run nothing is
// written and the computed summary is only returned.
func (p *Processor) RateMatch(match *club.Match, dryRun bool) (*notifier.MatchSummary, error) {
	if err := match.Validate(); err != nil {
		return nil, err
	}

	sideA, err := p.store.GetPlayers(match.SideA)
	if err != nil {
		return nil, err
	}
	sideB, err := p.store.GetPlayers(match.SideB)
	if err != nil {
		return nil, err
	}

	strategy := rating.StrategyFor(match.Format, match.Outcome, p.simple, p.teamAware)
	update, err := strategy.Rate(match.Format, ratingsOf(sideA), ratingsOf(sideB), match.Outcome)
	if err != nil {
		return nil, err
	}

	summary := &notifier.MatchSummary{
		Match:   match,
		SideA:   sideA,
		SideB:   sideB,
		Changes: make(map[string]club.RatingChange, len(match.SideA)+len(match.SideB)),
	}
	var changes []club.RatingChange
	add := func(players []club.Player, deltas []int, result rating.Outcome) {
		for i, pl := range players {
			c := club.RatingChange{
				MatchID:       match.ID,
				PlayerID:      pl.ID,
				Result:        result,
				OldRating:     pl.Rating,
				Change:        deltas[i],
				NewRating:     pl.Rating + float64(deltas[i]),
				PointsAwarded: p.pointsFor(result),
				Strategy:      update.Strategy,
				KFactor:       update.KFactor,
			}
			changes = append(changes, c)
			summary.Changes[pl.ID] = c
		}
	}
	add(sideA, update.ChangesA, match.Outcome)
	add(sideB, update.ChangesB, opposite(match.Outcome))

	if dryRun {
		for _, c := range changes {
			log.Info("[Dry Run] Would apply rating change", "matchID", match.ID, "playerID", c.PlayerID, "from", c.OldRating, "to", c.NewRating, "points", c.PointsAwarded)
		}
		return summary, nil
	}

	if err := p.store.ApplyMatchResult(match.ID, changes); err != nil {
		return nil, fmt.Errorf("failed to apply match result: %w", err)
	}
	p.metrics.IncMatchesRated(string(match.Format))
	for _, c := range changes {
		p.metrics.ObserveRatingChange(float64(c.Change))
	}
	log.Info("Rated match", "matchID", match.ID, "strategy", update.Strategy, "k", update.KFactor)
	return summary, nil
}

// RecalculateTiers classifies the given players and stores every tier that
// changed. Promotions are announced. The returned changes include demotions.
func (p *Processor) RecalculateTiers(playerIDs []string, dryRun bool) ([]notifier.TierChange, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	players, err := p.store.GetPlayers(playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get players for tier recalculation: %w", err)
	}

	table := p.classifier.Table()
	var changes []notifier.TierChange
	for _, pl := range players {
		next := p.classifier.Classify(pl.Points, pl.Wins, pl.Losses)
		if next.Name == pl.Tier {
			continue
		}

		fromRank := p.classifier.Rank(pl.Tier)
		from := tier.Definition{Name: pl.Tier}
		if fromRank >= 0 {
			from = table[fromRank]
		}
		change := notifier.TierChange{
			Player:   pl,
			From:     from,
			To:       next,
			Promoted: p.classifier.Rank(next.Name) > fromRank,
		}
		changes = append(changes, change)

		if dryRun {
			log.Info("[Dry Run] Would update player tier", "playerID", pl.ID, "from", pl.Tier, "to", next.Name)
		} else if err := p.store.UpdatePlayerTier(pl.ID, next.Name); err != nil {
			return changes, fmt.Errorf("failed to update tier for %s: %w", pl.ID, err)
		}

		if change.Promoted {
			log.Info("Player promoted", "playerID", pl.ID, "from", pl.Tier, "to", next.Name)
			if !dryRun {
				p.metrics.IncTierPromotions()
			}
			if err := p.notifier.SendTierPromotion(change, dryRun); err != nil {
				log.Error("Failed to send tier promotion", "error", err, "playerID", pl.ID)
			}
		} else {
			log.Info("Player moved down a tier", "playerID", pl.ID, "from", pl.Tier, "to", next.Name)
		}
	}
	return changes, nil
}

// publishRated hands the match to the tier recalculation. It reports whether
// the match may move on.
func (p *Processor) publishRated(match *club.Match, summary *notifier.MatchSummary, dryRun bool) bool {
	ids := match.PlayerIDs()
	if dryRun {
		log.Info("[Dry Run] Would publish tier recalculation", "matchID", match.ID, "players", ids)
		return true
	}
	err := p.pubsub.Publish(pubsub.EventRecalculateTiers, pubsub.RecalculateTiersMessage{
		MatchID:   match.ID,
		PlayerIDs: ids,
	})
	if err != nil {
		log.Error("Failed to publish tier recalculation, will retry", "error", err, "matchID", match.ID)
		return false
	}

	rated := pubsub.MatchRatedMessage{
		MatchID:   match.ID,
		Format:    string(match.Format),
		Outcome:   string(match.Outcome),
		PlayerIDs: ids,
		Changes:   make(map[string]int),
	}
	if summary != nil {
		for id, c := range summary.Changes {
			rated.Changes[id] = c.Change
		}
	}
	if err := p.pubsub.Publish(pubsub.EventMatchRated, rated); err != nil {
		log.Warn("Failed to publish match-rated event", "error", err, "matchID", match.ID)
	}
	return true
}

// loadSummary rebuilds the notification data for a match that was rated in
// an earlier run.
func (p *Processor) loadSummary(match *club.Match) *notifier.MatchSummary {
	summary := &notifier.MatchSummary{Match: match, Changes: make(map[string]club.RatingChange)}
	var err error
	if summary.SideA, err = p.store.GetPlayers(match.SideA); err != nil {
		log.Warn("Failed to load players for summary", "error", err, "matchID", match.ID)
	}
	if summary.SideB, err = p.store.GetPlayers(match.SideB); err != nil {
		log.Warn("Failed to load players for summary", "error", err, "matchID", match.ID)
	}
	for _, id := range match.PlayerIDs() {
		history, err := p.store.GetRatingHistory(id, 20)
		if err != nil {
			log.Warn("Failed to load rating history", "error", err, "playerID", id)
			continue
		}
		for _, c := range history {
			if c.MatchID == match.ID {
				summary.Changes[id] = c
				break
			}
		}
	}
	// Show the pre-match ratings like a fresh summary would.
	for _, side := range [][]club.Player{summary.SideA, summary.SideB} {
		for i := range side {
			if c, ok := summary.Changes[side[i].ID]; ok {
				side[i].Rating = c.OldRating
			}
		}
	}
	return summary
}

func (p *Processor) fail(match *club.Match, cause error, dryRun bool) {
	reason := cause.Error()
	log.Warn("Match cannot be rated", "matchID", match.ID, "reason", reason)
	if dryRun {
		log.Info("[Dry Run] Would mark match failed", "matchID", match.ID)
		match.ProcessingStatus = club.StatusFailed
		return
	}
	if err := p.store.MarkMatchFailed(match.ID, reason); err != nil {
		log.Error("Failed to mark match failed", "error", err, "matchID", match.ID)
		return
	}
	p.metrics.IncMatchesFailed()
	match.ProcessingStatus = club.StatusFailed
	match.FailureReason = reason
}

func (p *Processor) updateStatus(match *club.Match, newStatus club.ProcessingStatus, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would update match status", "matchID", match.ID, "from", match.ProcessingStatus, "to", newStatus)
		match.ProcessingStatus = newStatus // Update in-memory for the loop
		return
	}

	err := p.store.UpdateProcessingStatus(match.ID, newStatus)
	if err != nil {
		log.Error("Failed to update processing status", "error", err, "matchID", match.ID)
	} else {
		log.Debug("Successfully updated status", "matchID", match.ID, "from", match.ProcessingStatus, "to", newStatus)
		match.ProcessingStatus = newStatus // Keep the in-memory object in sync
	}
}

func (p *Processor) pointsFor(result rating.Outcome) int {
	switch result {
	case rating.Win:
		return p.points.PointsForWin
	case rating.Draw:
		return p.points.PointsForDraw
	}
	return 0
}

// isPermanent reports whether retrying the match can never succeed.
func isPermanent(err error) bool {
	return errors.Is(err, rating.ErrInvalidArgument) || errors.Is(err, club.ErrPlayerNotFound)
}

func ratingsOf(players []club.Player) []float64 {
	r := make([]float64, len(players))
	for i, pl := range players {
		r[i] = pl.Rating
	}
	return r
}

func opposite(o rating.Outcome) rating.Outcome {
	switch o {
	case rating.Win:
		return rating.Loss
	case rating.Loss:
		return rating.Win
	}
	return o
}
