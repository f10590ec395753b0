// Package main is the entry point for the fizz CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flemzord/fizz/internal/agent"
	"github.com/flemzord/fizz/internal/config"
	"github.com/flemzord/fizz/internal/gateway"
	"github.com/flemzord/fizz/internal/provider"
	"github.com/flemzord/fizz/internal/provider/anthropic"
	"github.com/flemzord/fizz/internal/provider/ollama"
	"github.com/flemzord/fizz/internal/repl"
	"github.com/flemzord/fizz/internal/tool"
	"github.com/flemzord/fizz/internal/transcript"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fizz",
		Short:         "A tool-augmented chat agent for local and hosted models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "Path to configuration file")
	root.AddCommand(versionCmd(), chatCmd(), askCmd(), serveCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("fizz %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := newLogger()
			ag, store, err := buildAgent(cfg, logger)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return repl.Run(ctx, ag, cfg.Model, os.Stdin, os.Stdout, repl.WithLogger(logger))
		},
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Run a single turn and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := newLogger()
			ag, store, err := buildAgent(cfg, logger)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			reply, err := ag.RunTurn(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Println(strings.TrimSpace(reply))
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Expose the conversation over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := newLogger()
			ag, store, err := buildAgent(cfg, logger)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gw := gateway.New(cfg.Gateway, ag,
				gateway.WithLogger(logger),
				gateway.WithModelName(cfg.Model),
			)
			if err := gw.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			return gw.Stop(context.Background())
		},
	}
}

// loadConfig resolves the configuration: explicit flag, then standard file
// locations, then environment variables.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = findConfigFile()
	}

	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.FromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile searches standard locations for a config file.
// Search order: $XDG_CONFIG_HOME/fizz/fizz.yaml → ~/.config/fizz/fizz.yaml → ./fizz.yaml
func findConfigFile() string {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "fizz", "fizz.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "fizz", "fizz.yaml"))
	}

	candidates = append(candidates, "fizz.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// buildAgent assembles the provider, tool registry, and optional transcript
// recorder into a ready agent. The returned store is nil when transcript
// recording is disabled.
func buildAgent(cfg *config.Config, logger *slog.Logger) (*agent.Agent, *transcript.Store, error) {
	logger.Info("configuration resolved",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"base_url", cfg.BaseURL,
		"timeout", cfg.Timeout,
		"transcript", cfg.Transcript != "",
	)

	p, err := buildProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	registry := tool.NewRegistry()
	if err := registry.Register(tool.NewTimeTool()); err != nil {
		return nil, nil, err
	}

	opts := []agent.Option{agent.WithLogger(logger)}

	var store *transcript.Store
	if cfg.Transcript != "" {
		store, err = transcript.Open(cfg.Transcript)
		if err != nil {
			return nil, nil, fmt.Errorf("open transcript: %w", err)
		}
		opts = append(opts, agent.WithRecorder(store))
	}

	ag := agent.New(p, registry, agent.Config{SystemPrompt: cfg.SystemPrompt}, opts...)
	return ag, store, nil
}

// buildProvider selects the chat backend from the configuration.
func buildProvider(cfg *config.Config) (provider.Provider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.New(ollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	case "anthropic":
		return anthropic.New(anthropic.Config{
			APIKey:  cfg.ResolveAPIKey(),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil, fmt.Errorf("%w: %q", provider.ErrUnsupportedProvider, cfg.Provider)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
