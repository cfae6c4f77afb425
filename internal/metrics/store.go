package metrics

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

type store struct {
	db *sql.DB
	mu sync.Mutex
}

// New returns a MetricsStore backed by the metrics table.
func New(db *sql.DB) MetricsStore {
	return &store{db: db}
}

// Add raises the total stored under key by n, creating it at n.
func (s *store) Add(key string, n int) error {
	if n == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO metrics (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = value + excluded.value;
	`, key, n)
	if err != nil {
		return fmt.Errorf("failed to add to metric %s: %w", key, err)
	}
	log.Debug("Persisted metric", "key", key, "delta", n)
	return nil
}

func (s *store) GetAll() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT key, value FROM metrics")
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var (
			key   string
			value int
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		totals[key] = value
	}
	return totals, rows.Err()
}
