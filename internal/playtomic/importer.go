package playtomic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Importer pulls finished tennis matches for a club from Playtomic into the
// club store.
type Importer struct {
	client      PlaytomicClient
	store       Store
	metrics     metrics.Metrics
	tenantID    string
	concurrency int
	now         func() time.Time
}

func NewImporter(client PlaytomicClient, store Store, metrics metrics.Metrics, tenantID string, concurrency int) *Importer {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Importer{
		client:      client,
		store:       store,
		metrics:     metrics,
		tenantID:    tenantID,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Import searches the last daysBack days and stores every match that can be
// rated. Matches already stored are skipped, so runs can overlap. A failing
// detail lookup skips that match only.
func (im *Importer) Import(ctx context.Context, daysBack int, dryRun bool) (ImportResult, error) {
	im.metrics.IncFetcherRuns()
	if daysBack < 0 {
		daysBack = 0
	}
	startDate := im.now().AddDate(0, 0, -daysBack)

	params := &SearchMatchesParams{
		SportID:       SportTennis,
		HasPlayers:    true,
		Sort:          "start_date,ASC",
		TenantIDs:     []string{im.tenantID},
		FromStartDate: startDate.Format(time.DateOnly) + "T00:00:00",
	}
	log.Info("Fetching matches from", "startDate", params.FromStartDate, "tenant", im.tenantID)
	summaries, err := im.client.GetMatches(params)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to search matches: %w", err)
	}

	result := ImportResult{Found: len(summaries)}
	var (
		mu      sync.Mutex
		reports []*club.Match
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.concurrency)
	for _, summary := range summaries {
		if summary.OwnerID != nil && !im.store.IsKnownPlayer(*summary.OwnerID) {
			log.Debug("Skipping non-club match", "matchID", summary.MatchID)
			continue
		}
		matchID := summary.MatchID
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			detail, err := im.client.GetSpecificMatch(matchID)
			if err != nil {
				log.Error("Error fetching specific match", "matchID", matchID, "error", err)
				return nil
			}
			report, err := ToClubMatch(detail, im.store.IsKnownPlayer)
			if err != nil {
				if !errors.Is(err, ErrNotRateable) && !errors.Is(err, ErrUnknownPlayer) {
					return err
				}
				log.Debug("Skipping match", "matchID", matchID, "reason", err)
				return nil
			}
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("failed to fetch match details: %w", err)
	}

	// Insert in play order so processing sees them oldest first.
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].PlayedAt.Equal(reports[j].PlayedAt) {
			return reports[i].PlayedAt.Before(reports[j].PlayedAt)
		}
		return reports[i].ExternalID < reports[j].ExternalID
	})
	result.Eligible = len(reports)

	if dryRun {
		log.Info("[Dry Run] Would have stored club matches", "count", len(reports))
		return result, nil
	}
	for _, report := range reports {
		inserted, err := im.store.InsertMatch(report)
		if err != nil {
			return result, fmt.Errorf("failed to store match %s: %w", report.ExternalID, err)
		}
		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}
	im.metrics.AddMatchesImported(result.Inserted)
	log.Info("Match import finished", "found", result.Found, "eligible", result.Eligible, "inserted", result.Inserted, "skipped", result.Skipped)
	return result, nil
}
