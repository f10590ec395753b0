package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/flemzord/fizz/internal/provider"
)

// TurnRequest is the JSON body for POST /turn.
type TurnRequest struct {
	Input string `json:"input"`
}

// TurnResponse is the JSON response for POST /turn.
type TurnResponse struct {
	Reply string `json:"reply"`
}

// handleTurn returns an http.HandlerFunc for POST /turn. One request runs one
// full turn, tool hops included, and returns the final assistant reply.
func (g *Gateway) handleTurn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TurnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Input) == "" {
			writeError(w, http.StatusBadRequest, "input must not be empty")
			return
		}

		reply, err := g.runTurn(r.Context(), req.Input)
		if err != nil {
			g.logger.Error("turn failed", "error", err)
			status := http.StatusBadGateway
			if provider.IsRetryable(err) {
				status = http.StatusServiceUnavailable
			}
			writeError(w, status, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, TurnResponse{Reply: reply})
	}
}
