package handlers

import (
	"fmt"
	"net/http"
	"time"

	ws "github.com/sunstyle/sunstyle/internal/server/websocket"
)

// HandleWebSocket upgrades a connection and joins it to the catalog
// protocol. The client is registered with the hub before the protocol
// learns about it: broadcasts reach it from that point on, and the
// connect-time snapshot is issued behind any broadcast already in flight,
// so the combination can neither miss nor duplicate an item.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	clientID := fmt.Sprintf("%s-%d", r.RemoteAddr, time.Now().UnixNano())
	client := ws.NewClient(clientID, h.wsHub, conn, h.proto)

	h.wsHub.Register(client)
	h.proto.Connect(client)

	go client.WritePump()
	go client.ReadPump()
}

// HandleSSE serves the read-only Server-Sent Events stream of accepted
// items.
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
