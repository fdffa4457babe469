// Package mcp exposes the spending tool registry as an MCP (Model Context
// Protocol) server, so MCP clients such as Claude Desktop can query the
// Statistics Norway household budget data directly:
//
//	registry := tool.NewRegistry().Add(tool.SpendingTools(store)...)
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
package mcp

import (
	ai "github.com/perolav/grunnlag"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToMCPTool converts a tool definition to an MCP Tool. The parameter JSON
// schema is passed through as the MCP input schema.
func ToMCPTool(t ai.Tool) mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name, t.Description, t.Parameters)
}

// ToMCPTools converts a slice of tool definitions to MCP Tools.
func ToMCPTools(tools []ai.Tool) []mcp.Tool {
	result := make([]mcp.Tool, len(tools))
	for i, t := range tools {
		result[i] = ToMCPTool(t)
	}
	return result
}

// ToMCPCallToolResult converts an observation to an MCP call result. The
// provenance, when present, is attached as a text line so MCP clients see
// which table and year a figure came from.
func ToMCPCallToolResult(obs *ai.Observation) *mcp.CallToolResult {
	if obs.IsError {
		return mcp.NewToolResultError(obs.Content)
	}
	content := obs.Content
	if obs.Provenance != nil {
		content += "\n[source: SSB table " + obs.Provenance.TableID + ", year " + obs.Provenance.Period + "]"
	}
	return mcp.NewToolResultText(content)
}
