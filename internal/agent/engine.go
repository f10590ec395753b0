// Package agent implements the turn engine: it drives one user input
// through the model, detects tool-call envelopes in the responses, executes
// tools a bounded number of times, and feeds results back until the model
// produces a plain reply.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flemzord/fizz/internal/history"
	"github.com/flemzord/fizz/internal/provider"
	"github.com/flemzord/fizz/internal/toolcall"
)

// MaxToolHopsPerTurn bounds how many tool invocations a single turn may
// perform before the engine gives up and answers with LimitMessage.
const MaxToolHopsPerTurn = 2

// LimitMessage is the assistant reply synthesized when a turn exhausts its
// tool hop budget.
var LimitMessage = fmt.Sprintf(
	"I stopped after %d tool calls in one turn. Please try a simpler request.",
	MaxToolHopsPerTurn,
)

// ToolExecutor is the capability the engine uses to run a tool by name.
type ToolExecutor interface {
	Execute(ctx context.Context, name string) (string, error)
}

// ToolSource couples tool execution with the catalog used to build the
// model-facing usage instructions. *tool.Registry implements it.
type ToolSource interface {
	ToolExecutor
	Infos() []toolcall.ToolInfo
}

// Recorder receives a copy of every message the engine appends to history.
// Recording failures are logged and never affect the turn.
type Recorder interface {
	Record(ctx context.Context, turn int, role, kind, content string) error
}

// Engine drives turns against an injected chat backend and tool executor.
// It owns its history buffer exclusively and must not be driven by more
// than one turn at a time; callers serialize access per conversation.
type Engine struct {
	provider provider.Provider
	tools    ToolExecutor
	history  *history.Buffer
	logger   *slog.Logger
	recorder Recorder
	turn     int
}

// Option configures optional Engine behavior.
type Option func(*Engine)

// WithLogger injects a structured logger. When nil or omitted, all log
// output is silently discarded.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRecorder attaches a transcript recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// NewEngine creates an Engine around the given capabilities and buffer.
func NewEngine(p provider.Provider, tools ToolExecutor, buf *history.Buffer, opts ...Option) *Engine {
	e := &Engine{
		provider: p,
		tools:    tools,
		history:  buf,
		logger:   slog.New(nopHandler{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunTurn executes one user turn to completion and returns the final
// assistant-visible text. Backend errors abort the turn; tool errors are
// folded into the conversation and never surface here.
func (e *Engine) RunTurn(ctx context.Context, input string) (string, error) {
	e.turn++
	e.push(ctx, provider.User(input), history.KindUserInput)

	response, err := e.provider.Chat(ctx, e.history.Snapshot())
	if err != nil {
		return "", fmt.Errorf("chat call failed: %w", err)
	}

	hops := 0
	for {
		call, ok := toolcall.Parse(response)
		if !ok {
			e.push(ctx, provider.Assistant(response), history.KindAssistant)
			return response, nil
		}

		if hops >= MaxToolHopsPerTurn {
			e.logger.Warn("tool hop limit reached", "turn", e.turn, "tool", call.Name)
			e.push(ctx, provider.Assistant(response), history.KindAssistant)
			e.push(ctx, provider.Assistant(LimitMessage), history.KindAssistant)
			return LimitMessage, nil
		}

		hops++
		e.push(ctx, provider.Assistant(response), history.KindAssistant)

		result, err := e.tools.Execute(ctx, call.Name)
		if err != nil {
			e.logger.Warn("tool execution failed", "turn", e.turn, "tool", call.Name, "error", err)
			result = "ERROR: " + err.Error()
		} else {
			e.logger.Debug("tool executed", "turn", e.turn, "tool", call.Name, "hop", hops)
		}

		e.push(ctx, provider.User(toolcall.FormatResult(call.Name, result)), history.KindToolResult)

		response, err = e.provider.Chat(ctx, e.history.Snapshot())
		if err != nil {
			return "", fmt.Errorf("chat call failed: %w", err)
		}
	}
}

// push appends to history and mirrors the entry to the recorder, if any.
func (e *Engine) push(ctx context.Context, msg provider.Message, kind history.Kind) {
	e.history.Push(msg, kind)
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ctx, e.turn, string(msg.Role), string(kind), msg.Content); err != nil {
		e.logger.Warn("transcript record failed", "turn", e.turn, "error", err)
	}
}

// nopHandler is a slog.Handler that discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
