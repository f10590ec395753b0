package gateway

import (
	"net/http"
)

// HistoryEntry is one conversation entry in the GET /history response.
type HistoryEntry struct {
	Role    string `json:"role"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// HistoryResponse is the JSON response for GET /history.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// handleHistory returns an http.HandlerFunc for GET /history. It reports the
// full buffer, system prefix included, in conversation order.
func (g *Gateway) handleHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		g.mu.Lock()
		entries := g.agent.Entries()
		g.mu.Unlock()

		resp := HistoryResponse{Entries: make([]HistoryEntry, 0, len(entries))}
		for _, e := range entries {
			resp.Entries = append(resp.Entries, HistoryEntry{
				Role:    string(e.Message.Role),
				Kind:    string(e.Kind),
				Content: e.Message.Content,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// handleReset returns an http.HandlerFunc for POST /reset. It drops the
// conversation back to the system prefix.
func (g *Gateway) handleReset() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		g.mu.Lock()
		g.agent.Reset()
		g.mu.Unlock()

		g.metrics.RecordReset()
		g.logger.Info("conversation reset")
		writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	}
}
