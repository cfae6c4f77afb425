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

func NewServer(
	store club.ClubStore,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	importer handlers.MatchImporter,
	notifier notifier.Notifier,
	processor *processor.Processor,
	matchmakingService matchmaking.MatchmakingService,
	classifier *tier.Classifier,
	pubsub pubsub.PubSubClient,
	inngestClient inngest.InngestClient,
) *Server {
	if classifier == nil {
		classifier = tier.Default()
	}
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Importer:       importer,
		Notifier:       notifier,
		Processor:      processor,
		Matchmaking:    matchmakingService,
		Classifier:     classifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
		InngestClient:  inngestClient,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	slackVerify := slackVerifyMiddleware(s.Cfg.Slack.SigningSecret)

	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(handlers.ClearStoreHandler(s.Store), paramsMiddleware))
	s.Router.Handle("/members", Chain(handlers.MembersHandler(s.Store), paramsMiddleware))
	s.Router.Handle("/matches", Chain(handlers.MatchesHandler(s.Store), paramsMiddleware))
	s.Router.Handle("/fetch", Chain(handlers.FetchMatchesHandler(s.Importer, s.Cfg.Playtomic.DaysBack), paramsMiddleware))
	s.Router.Handle("/process", Chain(handlers.ProcessMatchesHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(handlers.LeaderboardHandler(s.Store, s.Notifier), paramsMiddleware))
	s.Router.Handle("/progress", Chain(handlers.ProgressHandler(s.Store, s.Classifier), paramsMiddleware))
	s.Router.Handle("/preview", Chain(handlers.PreviewHandler(s.Store), paramsMiddleware))
	s.Router.Handle("/partners", Chain(handlers.PartnersHandler(s.Store, s.Matchmaking), paramsMiddleware))
	s.Router.Handle("/match-requests", Chain(handlers.MatchRequestsHandler(s.Matchmaking, s.Store), paramsMiddleware))
	s.Router.Handle("/match-requests/availability", Chain(handlers.AvailabilityHandler(s.Matchmaking, s.Store), paramsMiddleware))
	s.Router.Handle("/match-requests/propose", Chain(handlers.ProposeMatchHandler(s.Matchmaking, s.Notifier), paramsMiddleware))
	s.Router.Handle("/match-requests/status", Chain(handlers.MatchRequestStatusHandler(s.Matchmaking), paramsMiddleware))

	var dispatcher handlers.DurableDispatcher
	if s.InngestClient != nil {
		dispatcher = s.InngestClient
		s.Router.Handle("/api/inngest", s.InngestClient.Serve())
	}
	s.Router.Handle("/pubsub/recalculate-tiers", Chain(handlers.RecalculateTiersHandler(s.Processor, s.pubsub, dispatcher), paramsMiddleware))

	s.Router.Handle("/slack/command/leaderboard", Chain(handlers.LeaderboardCommandHandler(s.Store, s.Notifier), paramsMiddleware, slackVerify))
	s.Router.Handle("/slack/command/tier", Chain(handlers.TierCommandHandler(s.Store, s.Notifier, s.Classifier), paramsMiddleware, slackVerify))
	s.Router.Handle("/slack/command/partners", Chain(handlers.PartnersCommandHandler(s.Store, s.Notifier, s.Matchmaking), paramsMiddleware, slackVerify))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
