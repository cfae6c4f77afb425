package pubsub

import "sync"

// Published is one event handed to the mock.
type Published struct {
	Event   EventType
	Payload any
}

// Mock records published events instead of sending them. It is safe for
// concurrent use.
type Mock struct {
	mu sync.Mutex

	// PublishErr, when set, decides the error returned for an event.
	PublishErr func(event EventType) error

	Published []Published
	Decoded   int
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = nil
	m.Decoded = 0
}

// Events returns the payloads published for event, oldest first.
func (m *Mock) Events(event EventType) []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []any
	for _, p := range m.Published {
		if p.Event == event {
			out = append(out, p.Payload)
		}
	}
	return out
}

func (m *Mock) Publish(event EventType, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, Published{Event: event, Payload: payload})
	if m.PublishErr != nil {
		return m.PublishErr(event)
	}
	return nil
}

// Decode uses the real msgpack decoding so handlers see wire payloads.
func (m *Mock) Decode(data []byte, out any) error {
	m.mu.Lock()
	m.Decoded++
	m.mu.Unlock()
	return Decode(data, out)
}

func (m *Mock) Close() {}
