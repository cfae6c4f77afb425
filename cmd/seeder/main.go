package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/database"
	"github.com/mauv0809/courtside/internal/rating"
)

// Simplified config loading for the script
func loadConfig() (dbName, primaryURL, authToken string) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName = os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "club.db"
	}
	return dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN")
}

var seedNames = []string{
	"Ada Baker", "Ben Carter", "Cleo Dunn", "Dev Ellis",
	"Eva Flores", "Finn Grant", "Gia Hale", "Hugo Ives",
	"Isla Jones", "Jack Knox", "Kira Lane", "Leo Moss",
}

func seedPlayers(rng *rand.Rand) []club.Player {
	players := make([]club.Player, 0, len(seedNames))
	for _, name := range seedNames {
		players = append(players, club.Player{
			// stable ids so running the seeder twice reuses the same players
			ID:   uuid.NewSHA1(uuid.NameSpaceURL, []byte("courtside/seed/"+name)).String(),
			Name: name,
			// spread around the initial rating so the leaderboard is not flat
			Rating: rating.InitialRating + float64(rng.Intn(401)-200),
		})
	}
	return players
}

// seedMatch builds a random report. Doubles draws can not be rated, so
// doubles matches always have a winner.
func seedMatch(rng *rand.Rand, n int, players []club.Player, now time.Time) *club.Match {
	picked := rng.Perm(len(players))
	m := &club.Match{
		ExternalID: fmt.Sprintf("seed-%d", n),
		Source:     club.SourceSeeder,
		PlayedAt:   now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour),
	}
	if rng.Intn(3) == 0 && len(players) >= 4 {
		m.Format = rating.Doubles
		m.SideA = []string{players[picked[0]].ID, players[picked[1]].ID}
		m.SideB = []string{players[picked[2]].ID, players[picked[3]].ID}
		m.Outcome = []rating.Outcome{rating.Win, rating.Loss}[rng.Intn(2)]
		return m
	}
	m.Format = rating.Singles
	m.SideA = []string{players[picked[0]].ID}
	m.SideB = []string{players[picked[1]].ID}
	m.Outcome = []rating.Outcome{rating.Win, rating.Loss, rating.Draw}[rng.Intn(3)]
	return m
}

func main() {
	numMatches := flag.Int("matches", 200, "Number of matches to insert")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	log.Info("Starting database seeder...")
	dbName, primaryURL, authToken := loadConfig()

	db, teardown, err := database.InitDB(dbName, primaryURL, authToken)
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()
	store := club.New(db)

	rng := rand.New(rand.NewSource(*seed))
	players := seedPlayers(rng)
	if err := store.UpsertPlayers(players); err != nil {
		log.Fatalf("Failed to insert seed players: %s", err)
	}
	log.Info("Ensured seed players exist.", "count", len(players))

	startTime := time.Now()
	inserted := 0
	for i := 0; i < *numMatches; i++ {
		ok, err := store.InsertMatch(seedMatch(rng, i, players, startTime))
		if err != nil {
			log.Fatalf("Failed to insert match %d: %s", i, err)
		}
		if ok {
			inserted++
		}
		if (i+1)%50 == 0 {
			log.Info("Inserted matches", "completed", i+1, "total", *numMatches)
		}
	}
	log.Info("Successfully inserted seed matches.", "inserted", inserted, "duration", time.Since(startTime))
}
