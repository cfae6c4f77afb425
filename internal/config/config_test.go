package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func requiredEnv() map[string]string {
	return map[string]string{
		"DB_NAME":          "club.db",
		"GCP_PROJECT":      "courtside",
		"SLACK_BOT_TOKEN":  "xoxb-test",
		"SLACK_CHANNEL_ID": "C123",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(lookupFrom(requiredEnv()))
	require.NoError(t, err)

	assert.Equal(t, "club.db", cfg.DBName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 32.0, cfg.Rating.SinglesKFactor)
	assert.Equal(t, 24.0, cfg.Rating.DoublesKFactor)
	assert.Equal(t, 25, cfg.Rating.PointsForWin)
	assert.Equal(t, 25, cfg.Rating.PointsForDraw)
	assert.Equal(t, 7, cfg.Playtomic.DaysBack)
	assert.Equal(t, "Europe/Copenhagen", cfg.Playtomic.Timezone)
	assert.False(t, cfg.Inngest.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	env := requiredEnv()
	env["ELO_DOUBLES_K"] = "20"
	env["POINTS_FOR_WIN"] = "30"
	env["INNGEST_APP_ID"] = "courtside"
	env["TURSO_PRIMARY_URL"] = "libsql://club.turso.io"

	cfg, err := load(lookupFrom(env))
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.Rating.DoublesKFactor)
	assert.Equal(t, 30, cfg.Rating.PointsForWin)
	assert.True(t, cfg.Inngest.Enabled())
	assert.Equal(t, "libsql://club.turso.io", cfg.Turso.PrimaryURL)
}

func TestLoadErrors(t *testing.T) {
	env := requiredEnv()
	delete(env, "SLACK_BOT_TOKEN")
	_, err := load(lookupFrom(env))
	assert.ErrorContains(t, err, "SLACK_BOT_TOKEN")

	env = requiredEnv()
	env["ELO_SINGLES_K"] = "fast"
	_, err = load(lookupFrom(env))
	assert.ErrorContains(t, err, "ELO_SINGLES_K")
}
