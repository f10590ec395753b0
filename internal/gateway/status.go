package gateway

import (
	"net/http"
	"time"
)

// StatusResponse is the JSON response for GET /status.
type StatusResponse struct {
	Uptime     int64           `json:"uptime_seconds"`
	Model      string          `json:"model,omitempty"`
	HistoryLen int             `json:"history_len"`
	Metrics    MetricsSnapshot `json:"metrics"`
}

// handleStatus returns an http.HandlerFunc for GET /status.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		g.mu.Lock()
		historyLen := len(g.agent.Entries())
		g.mu.Unlock()

		writeJSON(w, http.StatusOK, StatusResponse{
			Uptime:     int64(time.Since(g.startedAt) / time.Second),
			Model:      g.model,
			HistoryLen: historyLen,
			Metrics:    g.metrics.Snapshot(),
		})
	}
}
