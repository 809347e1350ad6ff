package handlers

import (
	"net/http"
	"time"

	"github.com/sunstyle/sunstyle/internal/server/response"
)

// startTime anchors uptime reporting.
var startTime = time.Now()

// HandleHealth reports liveness plus basic catalog and connection counts.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w)
		return
	}

	response.OK(w, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(startTime).Seconds()),
		"items":          h.store.Len(),
		"ws_clients":     h.wsHub.ClientCount(),
		"sse_clients":    h.sseBroadcaster.ClientCount(),
	})
}
