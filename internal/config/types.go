package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	ProjectID string
	Slack     SlackConfig
	Turso     TursoConfig
	Inngest   InngestConfig
	Playtomic PlaytomicConfig
	Rating    RatingConfig
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// InngestConfig is optional. An empty AppID disables the Inngest endpoint.
type InngestConfig struct {
	AppID      string
	SigningKey string
	EventKey   string
}

func (c InngestConfig) Enabled() bool {
	return c.AppID != ""
}

type PlaytomicConfig struct {
	TenantID    string
	DaysBack    int
	Concurrency int
	// Timezone is the IANA zone of the club; Playtomic reports local times.
	Timezone string
}

// RatingConfig carries the K factors and the points bonuses paid on a
// finished match.
type RatingConfig struct {
	SimpleKFactor  float64
	SinglesKFactor float64
	DoublesKFactor float64
	PointsForWin   int
	PointsForDraw  int
}
