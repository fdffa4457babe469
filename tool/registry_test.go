package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/perolav/grunnlag"
)

type echoArgs struct {
	Text string `json:"text" desc:"Text to echo" required:"true"`
}

func echoRegistration() Registration {
	return Func("echo", "Echo the input text",
		func(ctx context.Context, args echoArgs) (string, ai.Provenance, error) {
			return "echo: " + args.Text, ai.Provenance{TableID: "10235", Period: "2012"}, nil
		})
}

func TestRegistryRegisterAndExecute(t *testing.T) {
	registry := NewRegistry().Add(echoRegistration())
	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, []string{"echo"}, registry.Names())

	call := ai.ToolCall{ID: "call-1", Name: "echo", Arguments: `{"text": "hei"}`}
	obs, err := registry.Execute(context.Background(), call)
	require.NoError(t, err)
	assert.Equal(t, "echo", obs.ToolName)
	assert.Equal(t, "call-1", obs.CallID)
	assert.Equal(t, "echo: hei", obs.Content)
	assert.False(t, obs.IsError)
	require.NotNil(t, obs.Provenance)
	assert.Equal(t, "10235", obs.Provenance.TableID)
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	registry := NewRegistry().Add(echoRegistration())

	err := registry.Register(ai.Tool{Name: "echo"}, nil)
	var dup *AlreadyRegisteredError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "echo", dup.Name)

	assert.Panics(t, func() { registry.Add(echoRegistration()) })
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	registry := NewRegistry().Add(echoRegistration())

	call := ai.ToolCall{ID: "call-1", Name: "summon", Arguments: "{}"}
	obs, err := registry.Execute(context.Background(), call)
	assert.Nil(t, obs)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "summon", notFound.Name)
}

func TestRegistryStrictArgumentDecoding(t *testing.T) {
	registry := NewRegistry().Add(echoRegistration())
	ctx := context.Background()

	tests := []struct {
		name string
		args string
	}{
		{"unknown field", `{"text": "hei", "volume": 11}`},
		{"wrong type", `{"text": 42}`},
		{"not an object", `"hei"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := ai.ToolCall{Name: "echo", Arguments: tt.args}
			obs, err := registry.Execute(ctx, call)
			assert.Nil(t, obs)

			var argErr *ArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, "echo", argErr.Tool)
		})
	}
}

func TestRegistryEmptyArgumentsAreAnEmptyObject(t *testing.T) {
	registry := NewRegistry().Add(
		Func("ping", "No arguments", func(ctx context.Context, args struct{}) (string, ai.Provenance, error) {
			return "pong", ai.Provenance{}, nil
		}),
	)

	obs, err := registry.Execute(context.Background(), ai.ToolCall{Name: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "pong", obs.Content)
}

func TestRegistryHandlerErrorsPassThrough(t *testing.T) {
	sentinel := errors.New("backend unavailable")
	registry := NewRegistry().Add(
		Func("broken", "Always fails", func(ctx context.Context, args struct{}) (string, ai.Provenance, error) {
			return "", ai.Provenance{}, sentinel
		}),
	)

	obs, err := registry.Execute(context.Background(), ai.ToolCall{Name: "broken", Arguments: "{}"})
	assert.Nil(t, obs)
	assert.ErrorIs(t, err, sentinel)
}

func TestRegistryToolsIncludeGeneratedSchema(t *testing.T) {
	registry := NewRegistry().Add(echoRegistration())

	def, ok := registry.GetTool("echo")
	require.True(t, ok)
	assert.Equal(t, "Echo the input text", def.Description)

	var schema struct {
		Type       string                    `json:"type"`
		Properties map[string]map[string]any `json:"properties"`
		Required   []string                  `json:"required"`
	}
	require.NoError(t, json.Unmarshal(def.Parameters, &schema))
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"text"}, schema.Required)
	assert.Equal(t, "string", schema.Properties["text"]["type"])
	assert.Equal(t, "Text to echo", schema.Properties["text"]["description"])
}

func TestRegistryToolsSortedByName(t *testing.T) {
	registry := NewRegistry().Add(
		Func("zeta", "z", func(ctx context.Context, args struct{}) (string, ai.Provenance, error) {
			return "", ai.Provenance{}, nil
		}),
		Func("alpha", "a", func(ctx context.Context, args struct{}) (string, ai.Provenance, error) {
			return "", ai.Provenance{}, nil
		}),
	)

	tools := registry.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "alpha", tools[0].Name)
	assert.Equal(t, "zeta", tools[1].Name)
}
