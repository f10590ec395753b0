// Package anthropic implements the chat backend against the Anthropic
// Messages API. The conversation's system prefix is extracted into the
// dedicated System parameter; tool-call envelopes travel as ordinary text,
// so no API-level tool definitions are sent.
package anthropic

import (
	"context"
	"errors"
	"fmt"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/flemzord/fizz/internal/provider"
)

// DefaultMaxTokens is the completion budget when none is configured.
const DefaultMaxTokens = 1024

// Config holds the settings for an Anthropic provider.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// defaults sets default values for unset fields.
func (c *Config) defaults() {
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
}

// Provider talks to the Anthropic Messages API.
type Provider struct {
	config Config
	client *sdkanthropic.Client
}

// New creates an Anthropic provider from the given configuration.
// An empty APIKey falls back to the SDK's ANTHROPIC_API_KEY handling.
func New(cfg Config) (*Provider, error) {
	cfg.defaults()
	if cfg.Model == "" {
		return nil, errors.New("anthropic: model must not be empty")
	}

	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := sdkanthropic.NewClient(opts...)
	return &Provider{config: cfg, client: &client}, nil
}

// Chat implements provider.Provider.
func (p *Provider) Chat(ctx context.Context, messages []provider.Message) (string, error) {
	system, rest := splitSystemPrefix(messages)

	params := sdkanthropic.MessageNewParams{
		Model:     sdkanthropic.Model(p.config.Model),
		MaxTokens: int64(p.config.MaxTokens),
		System:    system,
		Messages:  convertMessages(rest),
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", mapError(err)
	}

	text := extractText(msg)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", provider.ErrBadResponse)
	}
	return text, nil
}

// ModelName implements provider.Provider.
func (p *Provider) ModelName() string {
	return p.config.Model
}

// splitSystemPrefix extracts leading system messages into Anthropic's System
// parameter format and returns the remaining messages.
func splitSystemPrefix(msgs []provider.Message) ([]sdkanthropic.TextBlockParam, []provider.Message) {
	var system []sdkanthropic.TextBlockParam
	var idx int
	for idx = 0; idx < len(msgs); idx++ {
		if msgs[idx].Role != provider.MessageRoleSystem {
			break
		}
		system = append(system, sdkanthropic.TextBlockParam{
			Text: msgs[idx].Content,
		})
	}
	return system, msgs[idx:]
}

// convertMessages transforms conversation messages into SDK message params.
// Non-leading system messages cannot be expressed in the Messages API and
// are folded into user content rather than silently dropped.
func convertMessages(msgs []provider.Message) []sdkanthropic.MessageParam {
	result := make([]sdkanthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case provider.MessageRoleAssistant:
			result = append(result, sdkanthropic.NewAssistantMessage(
				sdkanthropic.NewTextBlock(m.Content),
			))
		default:
			result = append(result, sdkanthropic.NewUserMessage(
				sdkanthropic.NewTextBlock(m.Content),
			))
		}
	}
	return result
}

// extractText concatenates the text blocks of a completion.
func extractText(msg *sdkanthropic.Message) string {
	var content string
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(sdkanthropic.TextBlock); ok {
			if content != "" {
				content += "\n"
			}
			content += v.Text
		}
	}
	return content
}

// Interface guard.
var _ provider.Provider = (*Provider)(nil)
