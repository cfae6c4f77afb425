package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/database"
	"github.com/mauv0809/courtside/internal/http/handlers"
	"github.com/mauv0809/courtside/internal/inngest"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/playtomic"
	"github.com/mauv0809/courtside/internal/processor"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSlackSigningSecret = "test-signing-secret"

type fakeImporter struct {
	result  playtomic.ImportResult
	err     error
	gotDays int
	gotDry  bool
}

func (f *fakeImporter) Import(ctx context.Context, daysBack int, dryRun bool) (playtomic.ImportResult, error) {
	f.gotDays = daysBack
	f.gotDry = dryRun
	return f.result, f.err
}

type testServer struct {
	*Server
	db       *sql.DB
	notifier *notifier.Mock
	pubsub   *pubsub.Mock
}

// setupTestServer initializes a new server with an in-memory database and mock clients.
func setupTestServer(t *testing.T, importer handlers.MatchImporter, slackSigningSecret string, inngestClient inngest.InngestClient) *testServer {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(dbTeardown)

	clubStore := club.New(db)
	cfg := config.Config{
		Slack:     config.SlackConfig{SigningSecret: slackSigningSecret},
		Playtomic: config.PlaytomicConfig{DaysBack: 7},
		Rating: config.RatingConfig{
			SimpleKFactor:  32,
			SinglesKFactor: 32,
			DoublesKFactor: 24,
			PointsForWin:   25,
			PointsForDraw:  25,
		},
	}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	notif := notifier.NewMock()
	ps := pubsub.NewMock()
	proc := processor.New(clubStore, notif, metricsSvc, ps, cfg.Rating, nil)
	mm := matchmaking.NewStore(db, clubStore)

	server := NewServer(clubStore, metricsSvc, metricsHandler, cfg, importer, notif, proc, mm, nil, ps, inngestClient)
	return &testServer{Server: server, db: db, notifier: notif, pubsub: ps}
}

func (s *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) addPlayers(t *testing.T, players ...club.Player) {
	t.Helper()
	for _, p := range players {
		require.NoError(t, s.Store.AddPlayer(p))
	}
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	bodyBytes := []byte(form.Encode())
	req := httptest.NewRequest(http.MethodPost, targetURL, bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, string(bodyBytes))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))
	return req
}

func TestHealthCheckHandler(t *testing.T) {
	s := setupTestServer(t, &fakeImporter{}, "", nil)

	rr := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestMembersHandler(t *testing.T) {
	s := setupTestServer(t, &fakeImporter{}, "", nil)

	rr := s.do(t, http.MethodPost, "/members", handlers.AddPlayerRequest{ID: "p1", Name: "Serena"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created club.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, 1200.0, created.Rating)
	assert.Equal(t, "Bronze", created.Tier)

	rr = s.do(t, http.MethodPost, "/members", handlers.AddPlayerRequest{ID: "p2"})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "a player needs a name")

	rr = s.do(t, http.MethodPost, "/members?dry_run=true", handlers.AddPlayerRequest{ID: "p3", Name: "Venus"})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/members", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var players []club.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	require.Len(t, players, 1)
	assert.Equal(t, "Serena", players[0].Name)

	rr = s.do(t, http.MethodDelete, "/members", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestMatchesHandler(t *testing.T) {
	s := setupTestServer(t, &fakeImporter{}, "", nil)
	s.addPlayers(t, club.Player{ID: "a", Name: "Anna"}, club.Player{ID: "b", Name: "Ben"})

	t.Run("stores a valid report", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/matches", handlers.ReportMatchRequest{
			ExternalID: "court-1", Format: "singles", Outcome: "win", SideA: []string{"a"}, SideB: []string{"b"},
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		rr = s.do(t, http.MethodPost, "/matches", handlers.ReportMatchRequest{
			ExternalID: "court-1", Format: "singles", Outcome: "win", SideA: []string{"a"}, SideB: []string{"b"},
		})
		assert.Equal(t, http.StatusOK, rr.Code, "a repeated external id is skipped")

		rr = s.do(t, http.MethodGet, "/matches", nil)
		var matches []club.Match
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
		require.Len(t, matches, 1)
		assert.Equal(t, club.StatusNew, matches[0].ProcessingStatus)
	})

	cases := []struct {
		name   string
		req    handlers.ReportMatchRequest
		status int
	}{
		{"unknown format", handlers.ReportMatchRequest{Format: "triples", Outcome: "win", SideA: []string{"a"}, SideB: []string{"b"}}, http.StatusBadRequest},
		{"bad outcome", handlers.ReportMatchRequest{Format: "singles", Outcome: "walkover", SideA: []string{"a"}, SideB: []string{"b"}}, http.StatusBadRequest},
		{"wrong arity", handlers.ReportMatchRequest{Format: "doubles", Outcome: "win", SideA: []string{"a"}, SideB: []string{"b"}}, http.StatusBadRequest},
		{"same player twice", handlers.ReportMatchRequest{Format: "singles", Outcome: "win", SideA: []string{"a"}, SideB: []string{"a"}}, http.StatusBadRequest},
		{"unknown player", handlers.ReportMatchRequest{Format: "singles", Outcome: "win", SideA: []string{"a"}, SideB: []string{"ghost"}}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/matches", tc.req)
			assert.Equal(t, tc.status, rr.Code, rr.Body.String())
		})
	}
}

func TestProcessAndLeaderboard(t *testing.T) {
	s := setupTestServer(t, &fakeImporter{}, "", nil)
	s.addPlayers(t, club.Player{ID: "a", Name: "Anna"}, club.Player{ID: "b", Name: "Ben"})

	rr := s.do(t, http.MethodPost, "/matches", handlers.ReportMatchRequest{
		Format: "singles", Outcome: "win", SideA: []string{"a"}, SideB: []string{"b"},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = s.do(t, http.MethodGet, "/process", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	matches, err := s.Store.GetAllMatches()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, club.StatusCompleted, matches[0].ProcessingStatus)
	assert.Len(t, s.notifier.SendResultNotificationCalls, 1)
	require.Len(t, s.pubsub.Published, 2)
	assert.Len(t, s.pubsub.Events(pubsub.EventRecalculateTiers), 1)
	assert.Equal(t, pubsub.EventRecalculateTiers, s.pubsub.Published[0].Event)

	rr = s.do(t, http.MethodGet, "/leaderboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var board []club.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	require.Len(t, board, 2)
	assert.Equal(t, "a", board[0].ID)
	assert.Equal(t, 1216.0, board[0].Rating)
	assert.Equal(t, 25, board[0].Points)
	assert.Equal(t, 1184.0, board[1].Rating)
	assert.Equal(t, 0, board[1].Points)
	assert.Empty(t, s.notifier.SendLeaderboardCalls)

	rr = s.do(t, http.MethodGet, "/leaderboard?by=points&limit=1&announce=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, s.notifier.SendLeaderboardCalls, 1)
	require.Len(t, s.notifier.SendLeaderboardCalls[0], 1)
	assert.Equal(t, "a", s.notifier.SendLeaderboardCalls[0][0].ID)
}

func TestMatchRequestFlow(t *testing.T) {
	s := setupTestServer(t, &fakeImporter{}, "", nil)
	s.addPlayers(t,
		club.Player{ID: "p1", Name: "Anna", Rating: 1300},
		club.Player{ID: "p2", Name: "Bo", Rating: 1100},
		club.Player{ID: "p3", Name: "Cleo", Rating: 1250},
		club.Player{ID: "p4", Name: "Dev", Rating: 1150},
	)

	rr := s.do(t, http.MethodPost, "/match-requests", handlers.CreateMatchRequestBody{RequesterID: "p1", ChannelID: "C1", Format: "doubles"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var request matchmaking.MatchRequest
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &request))
	assert.Equal(t, "Anna", request.RequesterName)
	assert.Equal(t, matchmaking.StatusCollectingAvailability, request.Status)

	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		rr = s.do(t, http.MethodPost, "/match-requests/availability", handlers.AvailabilityBody{
			RequestID: request.ID, PlayerID: id, Dates: []string{"2025-07-12"},
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	var availability []matchmaking.AvailabilityResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &availability))
	require.Len(t, availability, 1)
	assert.Equal(t, 4, availability[0].PlayerCount)

	rr = s.do(t, http.MethodPost, "/match-requests/propose", handlers.ProposeMatchBody{RequestID: request.ID, Date: "2025-07-13"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Empty(t, s.notifier.SendMatchProposalCalls)

	rr = s.do(t, http.MethodPost, "/match-requests/propose", handlers.ProposeMatchBody{
		RequestID: request.ID, Date: "2025-07-12", StartTime: "18:00", EndTime: "19:30",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var proposal matchmaking.MatchProposal
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &proposal))
	assert.Len(t, proposal.TeamAssignments.Team1, 2)
	assert.Len(t, proposal.TeamAssignments.Team2, 2)
	require.Len(t, s.notifier.SendMatchProposalCalls, 1)

	rr = s.do(t, http.MethodPost, "/match-requests/status?request_id="+request.ID+"&action=confirm", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &request))
	assert.Equal(t, matchmaking.StatusConfirmed, request.Status)

	rr = s.do(t, http.MethodGet, "/match-requests", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var active []matchmaking.MatchRequest
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &active))
	assert.Empty(t, active)

	t.Run("errors", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/match-requests/status?request_id="+request.ID+"&action=reopen", nil).Code)
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/match-requests/status?request_id=ghost&action=cancel", nil).Code)
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/match-requests", handlers.CreateMatchRequestBody{RequesterID: "ghost"}).Code)
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/match-requests/availability", handlers.AvailabilityBody{
			RequestID: "ghost", PlayerID: "p1", Dates: []string{"2025-07-12"},
		}).Code)
		assert.Equal(t, http.StatusMethodNotAllowed, s.do(t, http.MethodGet, "/match-requests/propose", nil).Code)
	})
}

func TestProgressHandler(t *testing.T) {
	s := setupTestServer(t, &fakeImporter{}, "", nil)
	s.addPlayers(t, club.Player{ID: "p1", Name: "Serena Williams"})
	_, err := s.db.Exec(`UPDATE players SET points = 150, wins = 4, losses = 6 WHERE id = 'p1'`)
	require.NoError(t, err)

	rr := s.do(t, http.MethodGet, "/progress?player=serena", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp handlers.ProgressResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "p1", resp.Player.ID)
	assert.Equal(t, "Silver", resp.Progress.Current.Name)
	require.NotNil(t, resp.Progress.Next)
	assert.Equal(t, "Gold", resp.Progress.Next.Name)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/progress", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/progress?player=nobody", nil).Code)
}

func TestPreviewHandler(t *testing.T) {
	s := setupTestServer(t, &fakeImporter{}, "", nil)
	s.addPlayers(t,
		club.Player{ID: "a", Name: "Anna", Rating: 1000},
		club.Player{ID: "b", Name: "Ben", Rating: 1400},
	)

	rr := s.do(t, http.MethodGet, "/preview?a=a&b=b&k=32", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp handlers.PreviewResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 32.0, resp.KFactor)
	assert.InDelta(t, 0.0909, resp.WinProbabilityA, 0.0001)
	assert.Equal(t, 29, resp.Outcomes["win"].ChangeA)
	assert.Equal(t, -29, resp.Outcomes["win"].ChangeB)
	assert.Equal(t, -3, resp.Outcomes["loss"].ChangeA)
	assert.Equal(t, 13, resp.Outcomes["draw"].ChangeA)

	rr = s.do(t, http.MethodGet, "/preview?a=a&b=b", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 40.0, resp.KFactor, "new players get the provisional K factor")

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/preview?a=a&b=b&k=-5", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/preview?a=a&b=b&k=fast", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/preview?a=a", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/preview?a=a&b=ghost", nil).Code)
}

func TestPartnersHandler(t *testing.T) {
	s := setupTestServer(t, &fakeImporter{}, "", nil)
	s.addPlayers(t,
		club.Player{ID: "me", Name: "Me", Rating: 1200},
		club.Player{ID: "twin", Name: "Twin", Rating: 1200},
		club.Player{ID: "far", Name: "Far", Rating: 1600},
	)

	rr := s.do(t, http.MethodGet, "/partners?player=me&limit=1", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var suggestions []matchmaking.PartnerSuggestion
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &suggestions))
	require.Len(t, suggestions, 1)
	assert.Equal(t, "twin", suggestions[0].Player.ID)
	assert.InDelta(t, 0.5, suggestions[0].WinProbability, 1e-9)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/partners?player=ghost", nil).Code)
}

func TestFetchMatchesHandler(t *testing.T) {
	importer := &fakeImporter{result: playtomic.ImportResult{Found: 3, Eligible: 2, Inserted: 2}}
	s := setupTestServer(t, importer, "", nil)

	rr := s.do(t, http.MethodGet, "/fetch?days=3&dry_run=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var result playtomic.ImportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 3, importer.gotDays)
	assert.True(t, importer.gotDry)

	s.do(t, http.MethodGet, "/fetch?days=soon", nil)
	assert.Equal(t, 7, importer.gotDays, "bad days falls back to the configured default")

	importer.err = errors.New("playtomic down")
	assert.Equal(t, http.StatusInternalServerError, s.do(t, http.MethodGet, "/fetch", nil).Code)
}

func TestClearStoreHandler(t *testing.T) {
	s := setupTestServer(t, &fakeImporter{}, "", nil)
	s.addPlayers(t, club.Player{ID: "a", Name: "Anna"})

	s.do(t, http.MethodGet, "/clear?dry_run=true", nil)
	players, err := s.Store.GetAllPlayers()
	require.NoError(t, err)
	assert.Len(t, players, 1)

	rr := s.do(t, http.MethodGet, "/clear", nil)
	assert.Equal(t, "Store cleared!", rr.Body.String())
	players, err = s.Store.GetAllPlayers()
	require.NoError(t, err)
	assert.Empty(t, players)
}

func pushBody(t *testing.T, msg pubsub.RecalculateTiersMessage) *bytes.Reader {
	t.Helper()
	body, err := pubsub.EncodePush("projects/courtside/subscriptions/tiers", msg)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestRecalculateTiersHandler(t *testing.T) {
	t.Run("runs inline", func(t *testing.T) {
		s := setupTestServer(t, &fakeImporter{}, "", nil)
		s.addPlayers(t, club.Player{ID: "p1", Name: "Anna"}, club.Player{ID: "p2", Name: "Ben"})
		_, err := s.db.Exec(`UPDATE players SET points = 150, wins = 5, losses = 0 WHERE id = 'p1'`)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/pubsub/recalculate-tiers", pushBody(t, pubsub.RecalculateTiersMessage{MatchID: "m1", PlayerIDs: []string{"p1", "p2"}}))
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		p1, err := s.Store.GetPlayer("p1")
		require.NoError(t, err)
		assert.Equal(t, "Silver", p1.Tier)
		require.Len(t, s.notifier.SendTierPromotionCalls, 1)
		assert.Equal(t, "p1", s.notifier.SendTierPromotionCalls[0].Player.ID)
	})

	t.Run("forwards to inngest", func(t *testing.T) {
		mock := inngest.NewMock()
		s := setupTestServer(t, &fakeImporter{}, "", mock)

		req := httptest.NewRequest(http.MethodPost, "/pubsub/recalculate-tiers", pushBody(t, pubsub.RecalculateTiersMessage{MatchID: "m1", PlayerIDs: []string{"p1"}}))
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, mock.SendRecalculateTiersCalls, 1)
		assert.Equal(t, "m1", mock.SendRecalculateTiersCalls[0].MatchID)

		rr = s.do(t, http.MethodGet, "/api/inngest", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("dispatch failure asks for redelivery", func(t *testing.T) {
		mock := inngest.NewMock()
		mock.SendRecalculateTiersFunc = func(context.Context, string, []string) error { return errors.New("down") }
		s := setupTestServer(t, &fakeImporter{}, "", mock)

		req := httptest.NewRequest(http.MethodPost, "/pubsub/recalculate-tiers", pushBody(t, pubsub.RecalculateTiersMessage{MatchID: "m1", PlayerIDs: []string{"p1"}}))
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("rejects a malformed push", func(t *testing.T) {
		s := setupTestServer(t, &fakeImporter{}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/pubsub/recalculate-tiers", strings.NewReader("not json"))
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown player", func(t *testing.T) {
		s := setupTestServer(t, &fakeImporter{}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/pubsub/recalculate-tiers", pushBody(t, pubsub.RecalculateTiersMessage{MatchID: "m1", PlayerIDs: []string{"ghost"}}))
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTierCommandHandler(t *testing.T) {
	s := setupTestServer(t, &fakeImporter{}, testSlackSigningSecret, nil)
	s.addPlayers(t, club.Player{ID: "p1", Name: "Serena Williams", SlackUserID: "U1"})

	t.Run("handles found player", func(t *testing.T) {
		form := url.Values{"text": {"Serena"}}
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/tier", form, testSlackSigningSecret))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "formatted_progress")
	})

	t.Run("uses the caller without text", func(t *testing.T) {
		form := url.Values{"user_id": {"U1"}, "user_name": {"serena"}}
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/tier", form, testSlackSigningSecret))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "formatted_progress")
	})

	t.Run("handles not found player", func(t *testing.T) {
		form := url.Values{"text": {"Unknown"}}
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/tier", form, testSlackSigningSecret))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "formatted_player_not_found")
	})

	t.Run("suggests close names", func(t *testing.T) {
		s.notifier.Reset()
		form := url.Values{"text": {"Serna Wiliams"}}
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/tier", form, testSlackSigningSecret))

		assert.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, s.notifier.PlayerSuggestionCalls, 1)
		require.Len(t, s.notifier.PlayerSuggestionCalls[0], 1)
		assert.Equal(t, "p1", s.notifier.PlayerSuggestionCalls[0][0].Player.ID)
	})

	t.Run("handles missing player name", func(t *testing.T) {
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/tier", url.Values{}, testSlackSigningSecret))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects request with invalid signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/tier", url.Values{"text": {"Serena"}}, testSlackSigningSecret)
		req.Header.Set("X-Slack-Signature", "v0=invalid-signature")
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with missing signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/tier", url.Values{"text": {"Serena"}}, testSlackSigningSecret)
		req.Header.Del("X-Slack-Signature")
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with outdated timestamp", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/tier", url.Values{"text": {"Serena"}}, testSlackSigningSecret)
		req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(time.Now().Add(-6*time.Minute).Unix(), 10))
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestLeaderboardAndPartnersCommands(t *testing.T) {
	s := setupTestServer(t, &fakeImporter{}, testSlackSigningSecret, nil)
	s.addPlayers(t, club.Player{ID: "p1", Name: "Anna"}, club.Player{ID: "p2", Name: "Ben"})

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "formatted_leaderboard")

	rr = httptest.NewRecorder()
	s.Router.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/partners", url.Values{"text": {"Anna"}}, testSlackSigningSecret))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "formatted_partners")
}

func TestSlackCommandsWithoutSecret(t *testing.T) {
	s := setupTestServer(t, &fakeImporter{}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/slack/command/leaderboard", nil)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "verification is off without a signing secret")
}
