package playtomic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rafa-garcia/go-playtomic-api/client"
	"github.com/rafa-garcia/go-playtomic-api/models"
)

const timeLayout = "2006-01-02T15:04:05"

// APIClient is a custom Playtomic API client that implements the PlaytomicClient interface.
type APIClient struct {
	httpClient *http.Client
	apiClient  *client.Client
	BaseURL    string
	// location the club's wall-clock times are given in; nil means time.Local
	location *time.Location
}

// NewClient creates a new custom Playtomic client. Match times are read as
// wall-clock times in location.
func NewClient(location *time.Location) PlaytomicClient {
	return &APIClient{
		location:   location,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiClient: client.NewClient(
			client.WithTimeout(10*time.Second),
			client.WithRetries(3),
		),
		BaseURL: "https://api.playtomic.io",
	}
}

// Ensure APIClient implements the PlaytomicClient interface.
var _ PlaytomicClient = (*APIClient)(nil)

// GetMatches pages through the search results for params.
func (c *APIClient) GetMatches(params *SearchMatchesParams) ([]MatchSummary, error) {
	const pageSize = 300
	var (
		allMatches []MatchSummary
		page       = 0
	)

	for {
		externalParams := &models.SearchMatchesParams{
			SportID:       params.SportID,
			HasPlayers:    params.HasPlayers,
			Sort:          params.Sort,
			TenantIDs:     params.TenantIDs,
			FromStartDate: params.FromStartDate,
			Size:          pageSize,
			Page:          page,
		}

		log.Debug("Fetching matches from Playtomic API", "params", externalParams)
		matches, err := c.apiClient.GetMatches(context.Background(), externalParams)
		if err != nil {
			return nil, fmt.Errorf("error fetching matches from playtomic api: %w", err)
		}

		log.Debug("Fetched match page", "count", len(matches), "page", page)
		for _, m := range matches {
			allMatches = append(allMatches, MatchSummary{
				MatchID: m.MatchID,
				OwnerID: m.OwnerID,
			})
		}

		if len(matches) < pageSize {
			break
		}
		page++
	}
	log.Info("Fetched all matches", "count", len(allMatches), "sport", params.SportID)
	return allMatches, nil
}

// GetSpecificMatch fetches a specific match by its ID.
func (c *APIClient) GetSpecificMatch(matchID string) (TennisMatch, error) {
	url := fmt.Sprintf("%s/v1/matches/%s", c.BaseURL, matchID)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return TennisMatch{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "CourtsideGoClient/1.0")

	log.Debug("Requesting specific match from Playtomic API", "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TennisMatch{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from Playtomic API", "status", resp.StatusCode, "body", string(body))
		return TennisMatch{}, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var matchResponse playtomicMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&matchResponse); err != nil {
		return TennisMatch{}, fmt.Errorf("failed to decode response: %w", err)
	}
	loc := c.location
	if loc == nil {
		loc = time.Local
	}
	return parseMatch(matchID, matchResponse, loc)
}

func parseMatch(matchID string, r playtomicMatchResponse, loc *time.Location) (TennisMatch, error) {
	start, err := time.ParseInLocation(timeLayout, r.StartDate, loc)
	if err != nil {
		return TennisMatch{}, fmt.Errorf("failed to parse start time: %w", err)
	}
	end, err := time.ParseInLocation(timeLayout, r.EndDate, loc)
	if err != nil {
		return TennisMatch{}, fmt.Errorf("failed to parse end time: %w", err)
	}

	m := TennisMatch{
		MatchID:       matchID,
		OwnerID:       r.OwnerID,
		Start:         start,
		End:           end,
		GameStatus:    GameStatus(r.GameStatus),
		ResultsStatus: ResultsStatus(r.ResultsStatus),
		ResourceName:  r.ResourceName,
		Tenant:        Tenant{ID: r.Tenant.ID, Name: r.Tenant.Name},
	}
	if m.GameStatus == "" {
		m.GameStatus = GameStatusUnknown
	}

	for _, rt := range r.Teams {
		t := Team{ID: rt.TeamID}
		if rt.TeamResult != nil {
			t.TeamResult = *rt.TeamResult
		}
		for _, rp := range rt.Players {
			t.Players = append(t.Players, Player{UserID: rp.UserID, Name: rp.Name})
		}
		m.Teams = append(m.Teams, t)
	}

	for _, rr := range r.Results {
		set := SetResult{Name: rr.Name, Scores: make(map[string]int, len(rr.Scores))}
		for _, score := range rr.Scores {
			set.Scores[score.TeamID] = score.Score
		}
		m.Results = append(m.Results, set)
	}
	return m, nil
}
