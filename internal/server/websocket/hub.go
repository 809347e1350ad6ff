// Package websocket provides the WebSocket transport for the realtime
// catalog: a hub that tracks live connections and delivers unicasts and
// broadcasts, and a client with read/write pumps speaking the JSON frame
// protocol.
package websocket

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sunstyle/sunstyle/internal/server/protocol"
)

type hubOpKind int

const (
	opRegister hubOpKind = iota
	opUnregister
	opUnicast
	opBroadcast
)

// hubOp is a single hub operation. All ops flow through one FIFO channel
// so that, per connection, delivery order matches the order the protocol
// issued the sends; a select over separate channels would not preserve it.
type hubOp struct {
	kind    hubOpKind
	client  *Client
	message protocol.Message
}

// Hub maintains active WebSocket connections and delivers messages.
type Hub struct {
	clients map[*Client]bool
	ops     chan hubOp
	mu      sync.RWMutex
	logger  *zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		ops:     make(chan hubOp, 512),
		logger:  logger,
	}
}

// Run starts the hub's main loop. Should be called in a goroutine.
// The hub will run until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			h.logger.Info().Msg("WebSocket hub shut down")
			return

		case o := <-h.ops:
			h.handle(o)
		}
	}
}

func (h *Hub) handle(o hubOp) {
	switch o.kind {
	case opRegister:
		h.mu.Lock()
		h.clients[o.client] = true
		total := len(h.clients)
		h.mu.Unlock()
		h.logger.Info().
			Str("client_id", o.client.id).
			Int("total_clients", total).
			Msg("WebSocket client connected")

	case opUnregister:
		h.mu.Lock()
		if _, ok := h.clients[o.client]; ok {
			delete(h.clients, o.client)
			close(o.client.send)
		}
		total := len(h.clients)
		h.mu.Unlock()
		h.logger.Info().
			Str("client_id", o.client.id).
			Int("total_clients", total).
			Msg("WebSocket client disconnected")

	case opUnicast:
		h.mu.Lock()
		if h.clients[o.client] {
			h.deliverLocked(o.client, o.message)
		}
		h.mu.Unlock()

	case opBroadcast:
		h.mu.Lock()
		for client := range h.clients {
			h.deliverLocked(client, o.message)
		}
		h.mu.Unlock()
	}
}

// deliverLocked enqueues a message on a client's send buffer. A client that
// cannot keep up is dropped; it catches up via its next connect-time
// snapshot. Callers must hold h.mu.
func (h *Hub) deliverLocked(client *Client, message protocol.Message) {
	select {
	case client.send <- message:
	default:
		// Client buffer full, disconnect
		close(client.send)
		delete(h.clients, client)
	}
}

// Register adds a client to the hub. Must be called before the client's
// connection is announced to the protocol so broadcasts cannot be missed.
func (h *Hub) Register(client *Client) {
	select {
	case h.ops <- hubOp{kind: opRegister, client: client}:
	default:
		h.logger.Warn().
			Str("client_id", client.id).
			Msg("Hub queue full, registration dropped")
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.ops <- hubOp{kind: opUnregister, client: client}:
	default:
		h.logger.Warn().
			Str("client_id", client.id).
			Msg("Hub queue full, unregistration dropped")
	}
}

// Broadcast sends a message to all connected clients. Best effort: if the
// hub queue is full the message is dropped with a warning.
func (h *Hub) Broadcast(message protocol.Message) {
	select {
	case h.ops <- hubOp{kind: opBroadcast, message: message}:
	default:
		h.logger.Warn().Msg("Hub queue full, broadcast dropped")
	}
}

// Unicast sends a message to a single client through the same FIFO path as
// broadcasts, preserving per-connection ordering.
func (h *Hub) Unicast(client *Client, message protocol.Message) {
	select {
	case h.ops <- hubOp{kind: opUnicast, client: client, message: message}:
	default:
		h.logger.Warn().
			Str("client_id", client.id).
			Msg("Hub queue full, unicast dropped")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
