package events

// Subscriber is an interface for event consumers.
// Implementations adapt the unified event stream to specific transport
// mechanisms (WebSocket, SSE, webhooks, etc.).
type Subscriber interface {
	// Send delivers an event to the subscriber.
	// Implementations must be non-blocking and handle errors gracefully:
	// the broker fans out sequentially so that subscribers observe events
	// in publish order.
	Send(Event) error

	// Close cleanly shuts down the subscriber.
	Close() error
}
