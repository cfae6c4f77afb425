package pubsub

// PubSubClient publishes club events and decodes the payloads pushed back
// to the push endpoints.
type PubSubClient interface {
	Publish(event EventType, payload any) error
	Decode(data []byte, out any) error
	Close()
}
