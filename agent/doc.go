// Package agent implements two agents that answer household-finance
// questions grounded in Statistics Norway data: a bounded
// thought/action/observation reasoning loop (React) and a single-step
// Baseline used as the experimental control.
//
// Both agents speak a plain-text step grammar with the model:
//
//	THOUGHT: <reasoning>
//	ACTION: <tool_name>({"arg": "value"})
//	FINAL ANSWER: <answer>
//
// Observations from tool execution are fed back as user messages. The loop
// is bounded by a maximum iteration count, tolerates one malformed reply in
// a row with a corrective re-prompt, and terminates early on data-store
// failures that no rephrasing can fix. Every run returns a Result carrying
// the full trace, whether it concluded or failed.
package agent
