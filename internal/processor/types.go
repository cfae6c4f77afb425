package processor

import (
	"time"

	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/rating"
	"github.com/mauv0809/courtside/internal/tier"
)

// notifyWindow is how recent a match must be to get a result message.
// Older matches are back-filled quietly.
const notifyWindow = 24 * time.Hour

// Processor walks reported matches through rating, notification and tier
// recalculation.
type Processor struct {
	store      Store
	notifier   Notifier
	metrics    metrics.Metrics
	pubsub     pubsub.PubSubClient
	classifier *tier.Classifier
	simple     rating.SimpleStrategy
	teamAware  rating.TeamAwareStrategy
	points     config.RatingConfig
	now        func() time.Time
}
