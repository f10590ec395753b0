// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for fizz.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Default values applied by defaults().
const (
	DefaultProvider     = "ollama"
	DefaultModel        = "qwen2.5:3b"
	DefaultBaseURL      = "http://localhost:11434"
	DefaultSystemPrompt = "You are a helpful assistant."
	DefaultTimeout      = 60 * time.Second
	DefaultGatewayBind  = "127.0.0.1:8420"
)

// Config is the top-level configuration structure.
type Config struct {
	// Provider selects the chat backend: "ollama" or "anthropic".
	Provider string `yaml:"provider"`

	// Model is the backend model identifier.
	Model string `yaml:"model"`

	// BaseURL is the backend endpoint (Ollama) or API base override
	// (Anthropic). Trailing slashes are trimmed.
	BaseURL string `yaml:"base_url"`

	// APIKey and APIKeyEnv supply credentials for backends that need
	// them. APIKeyEnv names an environment variable read at startup.
	APIKey    string `yaml:"api_key"`
	APIKeyEnv string `yaml:"api_key_env"`

	// Timeout bounds each chat round-trip.
	Timeout time.Duration `yaml:"timeout"`

	// SystemPrompt is the persona instruction. Blank skips the message.
	SystemPrompt string `yaml:"system_prompt"`

	// Transcript is the SQLite transcript path. Empty disables recording.
	Transcript string `yaml:"transcript"`

	// Gateway configures the HTTP surface for the serve command.
	Gateway GatewayConfig `yaml:"gateway"`
}

// GatewayConfig holds the HTTP server settings.
type GatewayConfig struct {
	Bind            string        `yaml:"bind"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Defaults fills unset fields with their default values.
func (c *Config) Defaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" && c.Provider == DefaultProvider {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.Gateway.Bind == "" {
		c.Gateway.Bind = DefaultGatewayBind
	}
	if c.Gateway.ReadTimeout == 0 {
		c.Gateway.ReadTimeout = 15 * time.Second
	}
	if c.Gateway.WriteTimeout == 0 {
		// A turn spans several model calls; give writes room to finish.
		c.Gateway.WriteTimeout = 2 * time.Minute
	}
	if c.Gateway.ShutdownTimeout == 0 {
		c.Gateway.ShutdownTimeout = 10 * time.Second
	}
}

// Validate returns an error if the configuration is structurally invalid.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("config: model must not be empty")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("config: base_url is not a valid URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("config: base_url scheme must be http or https, got %q", u.Scheme)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative")
	}
	if _, err := net.ResolveTCPAddr("tcp", c.Gateway.Bind); err != nil {
		return fmt.Errorf("config: invalid gateway bind address %q", c.Gateway.Bind)
	}
	return nil
}

// ResolveAPIKey returns the configured API key, preferring the literal value
// over the environment indirection.
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if c.APIKeyEnv != "" {
		return os.Getenv(c.APIKeyEnv)
	}
	return ""
}

// FromEnv builds a configuration from environment variables alone, for
// running without a config file. Recognised variables: MODEL_PROVIDER,
// MODEL, MODEL_BASE_URL, SYSTEM_PROMPT, MODEL_TIMEOUT_SECS, TRANSCRIPT_PATH.
func FromEnv() *Config {
	cfg := &Config{
		Provider:     os.Getenv("MODEL_PROVIDER"),
		Model:        os.Getenv("MODEL"),
		BaseURL:      os.Getenv("MODEL_BASE_URL"),
		SystemPrompt: os.Getenv("SYSTEM_PROMPT"),
		Transcript:   os.Getenv("TRANSCRIPT_PATH"),
	}
	if secs, err := strconv.Atoi(os.Getenv("MODEL_TIMEOUT_SECS")); err == nil && secs > 0 {
		cfg.Timeout = time.Duration(secs) * time.Second
	}
	cfg.Defaults()
	return cfg
}
