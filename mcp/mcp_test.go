package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/perolav/grunnlag"
	mcplib "github.com/mark3labs/mcp-go/mcp"
)

func TestToMCPTool(t *testing.T) {
	src := ai.Tool{
		Name:        "get_spending",
		Description: "Look up household spending for a category",
		Parameters:  ai.MustSchemaFor[struct {
			Category string `json:"category" required:"true"`
		}](),
	}

	converted := ToMCPTool(src)
	assert.Equal(t, "get_spending", converted.Name)
	assert.Equal(t, "Look up household spending for a category", converted.Description)
	assert.JSONEq(t,
		`{"type": "object", "properties": {"category": {"type": "string"}}, "required": ["category"]}`,
		string(converted.RawInputSchema))
}

func TestToMCPCallToolResult(t *testing.T) {
	t.Run("success carries provenance", func(t *testing.T) {
		obs := &ai.Observation{
			ToolName:   "get_spending",
			Content:    "Average household spending on Transport (07) in 2012: 74,532 NOK per year.",
			Provenance: &ai.Provenance{TableID: "10235", Period: "2012"},
		}

		result := ToMCPCallToolResult(obs)
		require.False(t, result.IsError)
		require.Len(t, result.Content, 1)
		text, ok := result.Content[0].(mcplib.TextContent)
		require.True(t, ok)
		assert.Contains(t, text.Text, "74,532 NOK per year")
		assert.Contains(t, text.Text, "[source: SSB table 10235, year 2012]")
	})

	t.Run("error", func(t *testing.T) {
		obs := &ai.Observation{
			ToolName: "get_spending",
			Content:  `get_spending: unknown category "spaceships"`,
			IsError:  true,
		}

		result := ToMCPCallToolResult(obs)
		assert.True(t, result.IsError)
	})
}
