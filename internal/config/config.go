package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	cfg, err := load(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	return cfg
}

func load(lookup func(string) (string, bool)) (Config, error) {
	var missing []string
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	getEnvDefault := func(key, def string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return def
	}
	var parseErr error
	getInt := func(key string, def int) int {
		raw := getEnvDefault(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil && parseErr == nil {
			parseErr = fmt.Errorf("environment variable %s: %w", key, err)
		}
		return v
	}
	getFloat := func(key string, def float64) float64 {
		raw := getEnvDefault(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil && parseErr == nil {
			parseErr = fmt.Errorf("environment variable %s: %w", key, err)
		}
		return v
	}

	cfg := Config{
		DBName:    getEnv("DB_NAME"),
		Port:      getEnvDefault("PORT", "8080"),
		ProjectID: getEnv("GCP_PROJECT"),
		Slack: SlackConfig{
			Token:         getEnv("SLACK_BOT_TOKEN"),
			ChannelID:     getEnv("SLACK_CHANNEL_ID"),
			SigningSecret: getEnvDefault("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		},
		Inngest: InngestConfig{
			AppID:      getEnvDefault("INNGEST_APP_ID", ""),
			SigningKey: getEnvDefault("INNGEST_SIGNING_KEY", ""),
			EventKey:   getEnvDefault("INNGEST_EVENT_KEY", ""),
		},
		Playtomic: PlaytomicConfig{
			TenantID:    getEnvDefault("TENANT_ID", ""),
			DaysBack:    getInt("PLAYTOMIC_DAYS_BACK", 7),
			Concurrency: getInt("PLAYTOMIC_CONCURRENCY", 4),
			Timezone:    getEnvDefault("CLUB_TIMEZONE", "Europe/Copenhagen"),
		},
		Rating: RatingConfig{
			SimpleKFactor:  getFloat("ELO_SIMPLE_K", 32),
			SinglesKFactor: getFloat("ELO_SINGLES_K", 32),
			DoublesKFactor: getFloat("ELO_DOUBLES_K", 24),
			PointsForWin:   getInt("POINTS_FOR_WIN", 25),
			PointsForDraw:  getInt("POINTS_FOR_DRAW", 25),
		},
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %v", missing)
	}
	if parseErr != nil {
		return Config{}, parseErr
	}
	return cfg, nil
}
