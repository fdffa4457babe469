package agent

import (
	"log/slog"
	"time"

	ai "github.com/perolav/grunnlag"
)

// Options contains configuration for an agent run.
type Options struct {
	// MaxIterations limits the number of model calls in one run. Default 6.
	MaxIterations int

	// Timeout sets a deadline for the entire run.
	// A value of 0 means no timeout (context deadline applies).
	Timeout time.Duration

	// LLMTimeout bounds each individual model call. Default 60 seconds.
	LLMTimeout time.Duration

	// ToolTimeout bounds each individual tool execution. Default 30 seconds.
	ToolTimeout time.Duration

	// ChatOptions are passed through to every model call.
	ChatOptions []ai.Option

	// Logger receives per-iteration progress at Debug and recoveries at
	// Warn. Default discards.
	Logger *slog.Logger
}

// Option is a functional option for configuring an agent run.
type Option func(*Options)

// WithMaxIterations sets the model-call budget for one run. Default is 6.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithTimeout sets a deadline for the entire run.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithLLMTimeout bounds each individual model call. Default is 60 seconds.
func WithLLMTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.LLMTimeout = d
	}
}

// WithToolTimeout bounds each individual tool execution. Default is 30
// seconds. Set to 0 for no per-tool timeout.
func WithToolTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ToolTimeout = d
	}
}

// WithChatOptions passes options through to every model call.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithModel is a convenience option to set the model for chat calls.
func WithModel(model string) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, ai.WithModel(model))
	}
}

// WithMaxTokens is a convenience option to set max tokens for chat calls.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, ai.WithMaxTokens(n))
	}
}

// WithTemperature is a convenience option to set temperature for chat calls.
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, ai.WithTemperature(t))
	}
}

// WithLogger sets the run logger. Default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// ApplyOptions applies functional options to an Options struct with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxIterations: 6,
		LLMTimeout:    60 * time.Second,
		ToolTimeout:   30 * time.Second,
		Logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
