// Package gateway exposes one agent conversation over HTTP. It serves turn,
// history, and reset operations plus health and status endpoints, and a
// WebSocket chat channel. A single mutex serializes all access to the agent,
// so concurrent clients take turns against the shared conversation.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/flemzord/fizz/internal/agent"
	"github.com/flemzord/fizz/internal/config"
)

// Gateway is the HTTP front end for a single agent conversation.
type Gateway struct {
	config    config.GatewayConfig
	logger    *slog.Logger
	agent     *agent.Agent
	model     string
	metrics   *Metrics
	server    *http.Server
	startedAt time.Time

	// mu serializes turns and resets. The agent owns one conversation and
	// is not safe for concurrent use.
	mu sync.Mutex
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithModelName sets the model name reported by /health and /status.
func WithModelName(name string) Option {
	return func(g *Gateway) {
		g.model = name
	}
}

// New creates a gateway serving the given agent.
func New(cfg config.GatewayConfig, ag *agent.Agent, opts ...Option) *Gateway {
	g := &Gateway{
		config:  cfg,
		logger:  slog.New(nopHandler{}),
		agent:   ag,
		metrics: &Metrics{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start binds the listener and begins serving in a background goroutine.
func (g *Gateway) Start(ctx context.Context) error {
	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", g.config.Bind)
	if err != nil {
		return fmt.Errorf("gateway: listen failed: %w", err)
	}

	go func() {
		g.logger.Info("gateway listening", "addr", ln.Addr().String())
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully within the configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}

// runTurn executes one turn while holding the agent mutex and updates the
// gateway counters.
func (g *Gateway) runTurn(ctx context.Context, input string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := time.Now()
	reply, err := g.agent.RunTurn(ctx, input)
	if err != nil {
		g.metrics.RecordError()
		return "", err
	}
	g.metrics.RecordTurn(time.Since(start))
	return reply, nil
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
