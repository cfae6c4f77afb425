package http

import (
	"net/http"

	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/http/handlers"
	"github.com/mauv0809/courtside/internal/inngest"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/processor"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/tier"
)

type Server struct {
	Store          club.ClubStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Importer       handlers.MatchImporter
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Matchmaking    matchmaking.MatchmakingService
	Classifier     *tier.Classifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
	// InngestClient is nil when Inngest is not configured.
	InngestClient inngest.InngestClient
}
