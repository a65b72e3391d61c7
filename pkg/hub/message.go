// Package hub provides a thread-safe websocket broadcast hub with a latch:
// the most recent message is retained and delivered to late subscribers, so
// a visualization client connecting after the last queue change still sees
// the current snapshot.
package hub

// Message represents a JSON-encoded message to be broadcast to clients.
type Message struct {
	Data []byte
}

// NewMessage creates a message from pre-encoded bytes.
func NewMessage(data []byte) Message {
	return Message{Data: data}
}
