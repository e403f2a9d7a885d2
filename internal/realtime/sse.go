package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// HandleEvents handles GET /api/events requests as a Server-Sent Events stream.
// Optional Query Filters: organizationId
func (h *Hub) HandleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	organizationID := r.URL.Query().Get("organizationId")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	events, cancel := h.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, open := <-events:
			if !open {
				return
			}
			if organizationID != "" && evt.OrganizationID != organizationID {
				continue
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
