package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const publishTimeout = 10 * time.Second

func New(ctx context.Context, projectID string) (PubSubClient, error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	teardown := func() {
		if err := pubSubC.Close(); err != nil {
			log.Warn("Failed to close pubsub client", "error", err)
		}
	}

	return &client{
		client:   pubSubC,
		teardown: teardown,
	}, nil
}

// Publish sends payload as msgpack to the topic named after event and waits
// for the server to acknowledge it.
func (c *client) Publish(event EventType, payload any) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	data, err := Encode(payload)
	if err != nil {
		return err
	}
	result := c.client.Topic(string(event)).Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"event": string(event)},
	})
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish event", "error", err, "event", event)
		return fmt.Errorf("failed to publish to %s: %w", event, err)
	}
	log.Info("Published event", "event", event, "serverID", serverID)
	return nil
}

func (c *client) Decode(data []byte, out any) error {
	return Decode(data, out)
}

func (c *client) Close() {
	c.teardown()
}

// Encode marshals a payload the way Publish puts it on the wire.
func Encode(data any) ([]byte, error) {
	b, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return b, nil
}

func Decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return fmt.Errorf("failed to decode message: %w", err)
	}
	return nil
}

// DecodePush unwraps a push subscription body into the msgpack payload it
// carries.
func DecodePush(body []byte) ([]byte, error) {
	var req PushRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("invalid push request: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(req.Message.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return raw, nil
}

// EncodePush builds a push subscription body for payload, the same envelope a
// push endpoint receives. Tests use it to simulate deliveries.
func EncodePush(subscription string, payload any) ([]byte, error) {
	data, err := Encode(payload)
	if err != nil {
		return nil, err
	}
	var req PushRequest
	req.Subscription = subscription
	req.Message.Data = base64.StdEncoding.EncodeToString(data)
	return json.Marshal(req)
}
