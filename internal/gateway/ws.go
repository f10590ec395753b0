package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coder/websocket"
)

// wsReply is one server frame on the WebSocket channel. Exactly one of Reply
// and Error is set.
type wsReply struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleWS is the HTTP handler for the WebSocket chat channel. Each text
// frame carries a TurnRequest; the server answers with one frame per turn.
// Turn failures are reported in-band and keep the connection open.
func (g *Gateway) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		g.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer func() {
		_ = conn.Close(websocket.StatusInternalError, "unexpected close")
	}()

	g.logger.Info("websocket client connected", "remote", r.RemoteAddr)
	g.readLoop(r.Context(), conn)
	g.logger.Info("websocket client disconnected", "remote", r.RemoteAddr)
}

func (g *Gateway) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var req TurnRequest
		if err := json.Unmarshal(data, &req); err != nil {
			g.sendReply(ctx, conn, wsReply{Error: "invalid JSON frame"})
			continue
		}
		if strings.TrimSpace(req.Input) == "" {
			g.sendReply(ctx, conn, wsReply{Error: "input must not be empty"})
			continue
		}

		reply, err := g.runTurn(ctx, req.Input)
		if err != nil {
			g.logger.Error("turn failed", "error", err)
			g.sendReply(ctx, conn, wsReply{Error: err.Error()})
			continue
		}

		g.sendReply(ctx, conn, wsReply{Reply: reply})
	}
}

func (g *Gateway) sendReply(ctx context.Context, conn *websocket.Conn, reply wsReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		g.logger.Warn("websocket write failed", "error", err)
	}
}
