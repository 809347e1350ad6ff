// Package events provides a unified event system for real-time catalog
// updates. It implements a broker pattern that connects the synchronization
// protocol to multiple transport mechanisms (WebSocket, SSE) through a
// common event pipeline, keeping the catalog store decoupled from
// connections.
package events

import (
	"github.com/agentstation/utc"
)

// EventType represents the type of catalog event. The value doubles as the
// wire-level event name delivered to clients, so it must stay bit-exact.
type EventType string

// Event types for catalog changes.
const (
	// ItemAdded is published once per accepted submission.
	ItemAdded EventType = "nuevaPrenda"
)

// Event represents a catalog event with type, timestamp, and data.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp utc.Time  `json:"timestamp"`
	Data      any       `json:"data"`
}
