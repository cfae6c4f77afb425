package inngest

import (
	"context"
	"net/http"
	"sync"
)

// Mock is a mock implementation of InngestClient for testing.
type Mock struct {
	mu sync.Mutex

	SendRecalculateTiersFunc func(ctx context.Context, matchID string, playerIDs []string) error

	SendRecalculateTiersCalls []RecalculateTiersData
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Serve() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func (m *Mock) SendRecalculateTiers(ctx context.Context, matchID string, playerIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRecalculateTiersCalls = append(m.SendRecalculateTiersCalls, RecalculateTiersData{MatchID: matchID, PlayerIDs: playerIDs})
	if m.SendRecalculateTiersFunc != nil {
		return m.SendRecalculateTiersFunc(ctx, matchID, playerIDs)
	}
	return nil
}
