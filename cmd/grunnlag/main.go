// Command grunnlag answers household-finance questions from Statistics
// Norway data, using either the reasoning-loop agent or the single-step
// baseline for comparison.
//
// Usage:
//
//	grunnlag -agent react "How much more do households spend on housing than on food?"
//	grunnlag -agent baseline -year 2012 "What is the total monthly spending?"
//
// Configuration comes from the environment (or a .env file): provider
// selection via GRUNNLAG_PROVIDER with the matching API key, model override
// via GRUNNLAG_MODEL. See config.go for the full list.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ai "github.com/perolav/grunnlag"
	"github.com/perolav/grunnlag/agent"
	"github.com/perolav/grunnlag/chat"
	"github.com/perolav/grunnlag/provider/anthropic"
	"github.com/perolav/grunnlag/provider/google"
	"github.com/perolav/grunnlag/provider/openai"
	"github.com/perolav/grunnlag/ssb"
	"github.com/perolav/grunnlag/tool"
)

func main() {
	agentKind := flag.String("agent", "react", "agent to run: react or baseline")
	year := flag.String("year", "", "statistics year to query (default: latest published)")
	showTrace := flag.Bool("trace", true, "print the reasoning trace")
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: grunnlag [-agent react|baseline] [-year YYYY] \"question\"")
		os.Exit(2)
	}
	if *year != "" {
		question += fmt.Sprintf(" (use statistics for %s)", *year)
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "grunnlag: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	ctx := context.Background()

	client, err := newChatClient(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "grunnlag: %v\n", err)
		os.Exit(1)
	}

	registry := tool.NewRegistry().Add(tool.SpendingTools(newStore(cfg, logger))...)

	result := run(ctx, *agentKind, client, registry, question, cfg, logger)
	printResult(result, *showTrace)

	if !result.Concluded() {
		os.Exit(1)
	}
}

// newStore wires the SSB client, SQLite cache and freshness policy. A cache
// that cannot be opened is logged and skipped; the run then depends on the
// network instead of failing outright.
func newStore(cfg *Config, logger *slog.Logger) *ssb.Store {
	opts := []ssb.StoreOption{
		ssb.WithTTL(cfg.CacheTTL),
		ssb.WithStaleFallback(cfg.StaleFallback),
		ssb.WithLogger(logger),
	}
	cache, err := ssb.OpenCache(cfg.CachePath)
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", "path", cfg.CachePath, "err", err)
	} else {
		opts = append(opts, ssb.WithCache(cache))
	}
	return ssb.NewStore(ssb.NewClient(), opts...)
}

func newChatClient(ctx context.Context, cfg *Config) (chat.Client, error) {
	switch cfg.Provider {
	case "anthropic":
		var opts []anthropic.ClientOption
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		return anthropic.New(cfg.AnthropicKey, opts...), nil
	case "openai":
		var opts []openai.ClientOption
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		key := cfg.OpenAIKey
		if key == "" {
			key = "unused" // local endpoints ignore the key but the SDK wants one
		}
		return openai.New(key, opts...), nil
	case "google":
		var opts []google.ClientOption
		if cfg.Model != "" {
			opts = append(opts, google.WithModel(cfg.Model))
		}
		return google.New(ctx, cfg.GoogleKey, opts...)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func run(ctx context.Context, kind string, client chat.Client, registry *tool.Registry, question string, cfg *Config, logger *slog.Logger) *ai.Result {
	opts := []agent.Option{
		agent.WithMaxIterations(cfg.MaxIterations),
		agent.WithTimeout(cfg.Timeout),
		agent.WithTemperature(0),
		agent.WithLogger(logger),
	}

	var result *ai.Result
	switch kind {
	case "baseline":
		result, _ = agent.NewBaseline(client, registry).Answer(ctx, question, opts...)
	default:
		result, _ = agent.NewReact(client, registry).Answer(ctx, question, opts...)
	}
	return result
}

func printResult(result *ai.Result, showTrace bool) {
	if showTrace {
		fmt.Print(result.Trace.Render())
		fmt.Println()
	}

	if result.Concluded() {
		fmt.Println(result.Answer)
	} else {
		fmt.Fprintf(os.Stderr, "grunnlag: no answer: %v\n", result.Err)
	}
	fmt.Fprintf(os.Stderr, "[%s after %d iterations, %d in / %d out tokens]\n",
		result.Status, result.Iterations, result.Usage.InputTokens, result.Usage.OutputTokens)
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
