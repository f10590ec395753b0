// Package ollama implements the chat backend against a local Ollama server
// using its /api/chat endpoint in non-streaming mode.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flemzord/fizz/internal/provider"
)

// Config holds the settings for an Ollama provider.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// defaults sets default values for unset fields.
func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

// Provider talks to an Ollama server.
type Provider struct {
	config Config
	client *http.Client
}

// New creates an Ollama provider from the given configuration.
func New(cfg Config) *Provider {
	cfg.defaults()
	return &Provider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Ollama wire types for JSON serialization.

type chatRequest struct {
	Model    string        `json:"model"`
	Stream   bool          `json:"stream"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Chat implements provider.Provider.
func (p *Provider) Chat(ctx context.Context, messages []provider.Message) (string, error) {
	wire := make([]chatMessage, len(messages))
	for i, m := range messages {
		wire[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}

	payload, err := json.Marshal(chatRequest{
		Model:    p.config.Model,
		Stream:   false,
		Messages: wire,
	})
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	endpoint := p.config.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		// Caller cancellation is not a backend failure.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", provider.ErrBackendDown, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		return "", handleErrorResponse(resp)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode: %w", provider.ErrBadResponse, err)
	}

	return parsed.Message.Content, nil
}

// ModelName implements provider.Provider.
func (p *Provider) ModelName() string {
	return p.config.Model
}

// maxErrorBodySize caps how much of an error response body is read.
const maxErrorBodySize = 4096

// handleErrorResponse maps HTTP error status codes to sentinel errors.
func handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", provider.ErrRateLimit, body)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: HTTP %d: %s", provider.ErrBackendDown, resp.StatusCode, body)
	default:
		return fmt.Errorf("ollama: HTTP %d: %s", resp.StatusCode, body)
	}
}

// Interface guard.
var _ provider.Provider = (*Provider)(nil)
