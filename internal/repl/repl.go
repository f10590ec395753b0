// Package repl provides the interactive terminal loop around an agent
// conversation. Besides free-form prompts it understands a few commands:
// /history to inspect the buffer, /reset to clear it, and exit or quit to
// leave.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/flemzord/fizz/internal/agent"
)

// Option customizes the loop.
type Option func(*loop)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(lp *loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

type loop struct {
	agent  *agent.Agent
	model  string
	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
}

// Run drives the interactive loop until EOF, an exit command, or a fatal
// turn error. Tool failures never reach here; they are folded into the
// conversation and answered by the model.
func Run(ctx context.Context, ag *agent.Agent, model string, in io.Reader, out io.Writer, opts ...Option) error {
	lp := &loop{
		agent:  ag,
		model:  model,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: slog.New(nopHandler{}),
	}
	for _, opt := range opts {
		opt(lp)
	}
	return lp.run(ctx)
}

func (lp *loop) run(ctx context.Context) error {
	lp.printf("fizz agent harness\n")
	lp.printf("model: %s\n", lp.model)
	lp.printf("type a prompt, '/history' to inspect memory, '/reset' to clear memory, or 'exit' to quit\n")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		lp.printf("> ")
		if !lp.in.Scan() {
			if err := lp.in.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}

		input := strings.TrimSpace(lp.in.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit":
			return nil
		case "/reset":
			lp.agent.Reset()
			lp.printf("conversation reset\n\n")
			continue
		case "/history":
			lp.printHistory()
			continue
		}

		answer, err := lp.agent.RunTurn(ctx, input)
		if err != nil {
			return fmt.Errorf("turn failed: %w", err)
		}
		lp.printf("%s\n\n", strings.TrimSpace(answer))
	}
}

func (lp *loop) printHistory() {
	history := lp.agent.History()
	if len(history) == 0 {
		lp.printf("(history is empty)\n\n")
		return
	}

	for idx, msg := range history {
		lp.printf("[%d] %s: %s\n", idx, msg.Role, msg.Content)
	}
	lp.printf("\n")
}

func (lp *loop) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(lp.out, format, args...); err != nil {
		lp.logger.Warn("write to output failed", "error", err)
	}
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
