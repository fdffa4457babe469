package tool

import (
	"context"

	ai "github.com/perolav/grunnlag"
)

// Handler executes a tool call and returns the resulting observation.
type Handler func(ctx context.Context, call ai.ToolCall) (*ai.Observation, error)

// TypedHandler is a handler whose arguments have already been decoded into T.
// It returns the observation content and the provenance of the data it read.
type TypedHandler[T any] func(ctx context.Context, args T) (string, ai.Provenance, error)
