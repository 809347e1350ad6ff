package handlers

import (
	"net/http"

	"github.com/sunstyle/sunstyle/internal/server/response"
)

// HandleListPrendas returns the full catalog snapshot, most-recent-first.
// Read-only convenience for non-WebSocket consumers; search filtering is a
// client-side projection over this snapshot.
func (h *Handlers) HandleListPrendas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w)
		return
	}
	response.OK(w, h.store.Snapshot())
}
