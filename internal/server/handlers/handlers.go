// Package handlers provides HTTP request handlers for the sunstyle server.
package handlers

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sunstyle/sunstyle/internal/server/protocol"
	"github.com/sunstyle/sunstyle/internal/server/sse"
	ws "github.com/sunstyle/sunstyle/internal/server/websocket"
	"github.com/sunstyle/sunstyle/pkg/catalog"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	store          *catalog.Store
	proto          *protocol.Protocol
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
}

// New creates a new Handlers instance.
func New(
	store *catalog.Store,
	proto *protocol.Protocol,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		store:          store,
		proto:          proto,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logger,
	}
}
