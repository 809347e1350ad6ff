// Package protocol implements the catalog synchronization protocol: the
// serialized state machine that ties the validator, the store, the
// connection registry and the broadcast fan-out together.
//
// All registry and catalog mutation happens on a single goroutine (the Run
// loop), so no second submission can interleave between a given
// submission's validation and its broadcast. Transports stay dumb: a
// connection only needs to deliver outbound messages and hand inbound
// frames to HandleFrame.
package protocol

import "encoding/json"

// Wire event names. These are the contract shared with the web client and
// must be preserved bit-exact.
const (
	// Client to server.
	EventSetUsername = "setUsername"
	EventGetPrendas  = "getPrendas"
	EventAddPrenda   = "addPrenda"

	// Server to client.
	EventNuevaPrenda         = "nuevaPrenda"
	EventPrendasActualizadas = "prendasActualizadas"
	EventAck                 = "ack"
	EventError               = "error"
)

// Frame is an inbound client message. ID correlates a submission with its
// acknowledgement and is echoed back on the ack frame.
type Frame struct {
	Event string          `json:"event"`
	ID    int64           `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Message is an outbound server message.
type Message struct {
	Event string `json:"event"`
	ID    int64  `json:"id,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// Ack is the acknowledgement payload for a submission. Delivered exactly
// once, only to the submitter.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Conn is a live client connection as seen by the protocol. Send must be
// non-blocking and preserve per-connection FIFO order with respect to
// broadcasts: unicasts and broadcasts to the same connection are delivered
// in the order the protocol issued them.
type Conn interface {
	// ID identifies the connection for logging.
	ID() string

	// Send enqueues a message for delivery. Best effort: a connection that
	// drops mid-delivery simply misses the message and catches up via its
	// next snapshot.
	Send(Message)
}
