package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. The value
// doubles as the topic name.
type EventType string

const (
	EventRecalculateTiers EventType = "recalculate-tiers"
	EventMatchRated       EventType = "match-rated"
)

// RecalculateTiersMessage asks for the tiers of the listed players to be
// derived again from their points and record.
type RecalculateTiersMessage struct {
	MatchID   string   `msgpack:"match_id"`
	PlayerIDs []string `msgpack:"player_ids"`
}

// MatchRatedMessage announces the rating changes of a processed match.
type MatchRatedMessage struct {
	MatchID   string         `msgpack:"match_id"`
	Format    string         `msgpack:"format"`
	Outcome   string         `msgpack:"outcome"`
	PlayerIDs []string       `msgpack:"player_ids"`
	Changes   map[string]int `msgpack:"changes"`
}

// PushRequest is the JSON body Pub/Sub POSTs to a push subscription. Data is
// base64 in the JSON and holds the msgpack payload.
type PushRequest struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID         string            `json:"messageId"`
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes,omitempty"`
	} `json:"message"`
}
