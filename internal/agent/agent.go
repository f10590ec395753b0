package agent

import (
	"context"
	"strings"

	"github.com/flemzord/fizz/internal/history"
	"github.com/flemzord/fizz/internal/provider"
	"github.com/flemzord/fizz/internal/toolcall"
)

// Config holds the per-conversation settings for an Agent.
type Config struct {
	// SystemPrompt is the persona instruction placed first in the system
	// prefix. Blank prompts are skipped.
	SystemPrompt string

	// MaxMessages bounds the history buffer. Zero means
	// history.DefaultMaxMessages.
	MaxMessages int
}

// Agent holds one conversation: the engine, its collaborators, and the
// history they share. It serves one turn at a time; concurrent turns
// against the same Agent are not supported.
type Agent struct {
	engine  *Engine
	history *history.Buffer
}

// New creates an Agent backed by the given chat provider and tool source.
// The system prefix is the configured prompt (when non-blank) followed by
// the tool usage instructions, and survives trimming and resets verbatim.
func New(p provider.Provider, tools ToolSource, cfg Config, opts ...Option) *Agent {
	buf := history.New(buildSystemMessages(cfg.SystemPrompt, tools.Infos()), cfg.MaxMessages)
	return &Agent{
		engine:  NewEngine(p, tools, buf, opts...),
		history: buf,
	}
}

// RunTurn executes one user turn and returns the final assistant reply.
func (a *Agent) RunTurn(ctx context.Context, input string) (string, error) {
	return a.engine.RunTurn(ctx, input)
}

// History returns the conversation's messages in order.
func (a *Agent) History() []provider.Message {
	return a.history.Snapshot()
}

// Entries returns the conversation with per-entry kinds.
func (a *Agent) Entries() []history.Entry {
	return a.history.Entries()
}

// Reset clears the conversation back to the system prefix.
func (a *Agent) Reset() {
	a.history.Reset()
}

// buildSystemMessages assembles the immutable system prefix.
func buildSystemMessages(systemPrompt string, tools []toolcall.ToolInfo) []provider.Message {
	var messages []provider.Message
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, provider.System(systemPrompt))
	}
	return append(messages, provider.System(toolcall.UsageInstructions(tools)))
}
