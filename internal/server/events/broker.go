package events

import (
	"sync"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"
)

// Broker manages event distribution to multiple subscribers.
//
// Publish fans out synchronously, calling every subscriber's Send in
// subscription order before returning. Combined with the serialized
// publisher (the synchronization protocol runs on a single goroutine) this
// guarantees that every subscriber observes events in acceptance order;
// subscribers enqueue onto their own transports and must not block.
type Broker struct {
	subscribers []Subscriber
	mu          sync.RWMutex
	logger      *zerolog.Logger
}

// NewBroker creates a new event broker.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		subscribers: make([]Subscriber, 0),
		logger:      logger,
	}
}

// Publish sends an event to all subscribers, in subscription order.
func (b *Broker) Publish(eventType EventType, data any) {
	event := Event{
		Type:      eventType,
		Timestamp: utc.Now(),
		Data:      data,
	}

	b.mu.RLock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.Send(event); err != nil {
			b.logger.Warn().
				Err(err).
				Str("event_type", string(event.Type)).
				Msg("Failed to send event to subscriber")
		}
	}

	b.logger.Debug().
		Str("event_type", string(event.Type)).
		Int("subscribers", len(subs)).
		Msg("Event broadcasted")
}

// Subscribe registers a new subscriber to receive events.
func (b *Broker) Subscribe(sub Subscriber) {
	b.mu.Lock()
	b.subscribers = append(b.subscribers, sub)
	total := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Info().
		Int("total_subscribers", total).
		Msg("Subscriber registered")
}

// Unsubscribe removes a subscriber from receiving events.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	for i, s := range b.subscribers {
		if s == sub {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			_ = s.Close()
			break
		}
	}
	total := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Info().
		Int("total_subscribers", total).
		Msg("Subscriber unregistered")
}

// Close shuts down all subscribers.
func (b *Broker) Close() {
	b.mu.Lock()
	for _, sub := range b.subscribers {
		_ = sub.Close()
	}
	b.subscribers = nil
	b.mu.Unlock()
	b.logger.Info().Msg("Event broker shut down")
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
