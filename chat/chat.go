// Package chat provides the canonical chat client interface.
//
// This package exists so that the agent package and the provider
// implementations can share one interface without import cycles. The
// language model is treated as an opaque collaborator: it accepts a
// conversation and returns free text that may or may not follow the
// step grammar the agents expect.
package chat

import (
	"context"

	ai "github.com/perolav/grunnlag"
)

// Client defines the interface for chat completion clients.
// Implementations live under provider/.
type Client interface {
	// Chat sends a conversation and returns a complete response.
	// Implementations must respect context cancellation and deadlines.
	Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error)
}

// ClientFunc adapts a function to the Client interface, which keeps test
// doubles small.
type ClientFunc func(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error)

// Chat calls f.
func (f ClientFunc) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	return f(ctx, messages, opts...)
}
