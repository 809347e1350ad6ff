// Package server wires the catalog store, synchronization protocol, and
// realtime transports into an HTTP server.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sunstyle/sunstyle/internal/server/events"
	"github.com/sunstyle/sunstyle/internal/server/events/adapters"
	"github.com/sunstyle/sunstyle/internal/server/protocol"
	"github.com/sunstyle/sunstyle/internal/server/sse"
	ws "github.com/sunstyle/sunstyle/internal/server/websocket"
	"github.com/sunstyle/sunstyle/pkg/catalog"
)

// Server holds the catalog server state and dependencies.
type Server struct {
	store          *catalog.Store
	broker         *events.Broker
	proto          *protocol.Protocol
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
}

// New creates a new server instance with the given configuration. The
// persisted catalog is loaded once here; missing or corrupt state yields an
// empty catalog, never an error.
func New(cfg Config, logger *zerolog.Logger) *Server {
	store := catalog.NewStore(cfg.DBPath, logger)
	store.Load()

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	// Subscribe transports to the broker. Fan-out happens in subscription
	// order, so every transport observes items in acceptance order.
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	proto := protocol.New(store, broker, logger)

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		store:          store,
		broker:         broker,
		proto:          proto,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true // The trust model assumes a semi-trusted client population
			},
		},
		logger: logger,
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start starts background services (protocol loop, WebSocket hub, SSE
// broadcaster).
func (s *Server) Start() {
	go s.proto.Run(s.ctx)
	go s.wsHub.Run(s.ctx)
	go s.sseBroadcaster.Run(s.ctx)
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown gracefully shuts down background services.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")

	s.cancel()
	s.broker.Close()

	select {
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
	case <-time.After(100 * time.Millisecond):
		s.logger.Info().Msg("Background services shut down")
	}

	return nil
}

// Store returns the catalog store.
func (s *Server) Store() *catalog.Store {
	return s.store
}

// Broker returns the event broker for publishing events.
func (s *Server) Broker() *events.Broker {
	return s.broker
}
