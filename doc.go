// Package grunnlag provides grounded question answering over Statistics
// Norway household-budget data, comparing two agent designs that share the
// same tools and data access.
//
// The root package carries the shared vocabulary: conversation messages,
// tool definitions and calls, observations with data provenance, reasoning
// steps and traces, and the result type both agents return.
//
// # Packages
//
//   - [github.com/perolav/grunnlag/ssb]: fetch, parse, and cache Statistics
//     Norway tables (json-stat2 over the PxWeb API).
//   - [github.com/perolav/grunnlag/tool]: registry of typed spending tools
//     that answer from a cached dataset with provenance.
//   - [github.com/perolav/grunnlag/agent]: the iterative ReAct loop and the
//     single-shot baseline agent.
//   - [github.com/perolav/grunnlag/provider/...]: chat clients over the
//     Anthropic, OpenAI, and Google SDKs.
//   - [github.com/perolav/grunnlag/mcp]: expose the spending tools over MCP.
//
// # Basic Usage
//
//	store := ssb.NewStore(ssb.NewClient(), ssb.WithCache(cache))
//	registry := tool.NewRegistry().Add(tool.SpendingTools(store)...)
//
//	react := agent.NewReact(anthropic.New(apiKey), registry)
//	result, _ := react.Answer(ctx, "Do Norwegians spend more on housing or food?")
//
//	fmt.Println(result.Answer)
//	fmt.Println(result.Trace.Render())
//
// Both agents always return a well-formed [Result]; failures are reported
// through [Result.Status] and [Result.Err] together with the partial trace,
// never as a bare error with no trace attached.
package grunnlag
