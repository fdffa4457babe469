package agent

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	ai "github.com/perolav/grunnlag"
	"github.com/perolav/grunnlag/tool"
)

const reactPromptHeader = `You answer questions about Norwegian household finances using official
statistics from Statistics Norway (SSB). You work in steps. Each reply must
use exactly this format:

THOUGHT: your reasoning about what to do next
ACTION: tool_name({"argument": "value"})

or, once the observations contain enough information:

THOUGHT: your reasoning
FINAL ANSWER: the answer to the question

Rules:
- Issue at most one ACTION per reply, then wait for the OBSERVATION.
- Base every figure in your answer on observations, never on memory.
- Amounts are in Norwegian kroner (NOK).
- If an observation reports an error, adjust and try a corrected step.

Available tools:
`

const baselinePromptHeader = `You answer questions about Norwegian household finances using official
statistics from Statistics Norway (SSB). You may look up data at most once.

If you need data, reply with a single line:

ACTION: tool_name({"argument": "value"})

and you will receive one OBSERVATION, after which you must reply:

FINAL ANSWER: the answer to the question

If you can answer without data, reply directly with FINAL ANSWER. Amounts
are in Norwegian kroner (NOK).

Available tools:
`

// reactSystemPrompt renders the step-grammar instructions with the tool
// catalog for the reasoning loop.
func reactSystemPrompt(registry *tool.Registry) string {
	return reactPromptHeader + describeTools(registry)
}

// baselineSystemPrompt renders the single-lookup instructions for the
// baseline agent.
func baselineSystemPrompt(registry *tool.Registry) string {
	return baselinePromptHeader + describeTools(registry)
}

// describeTools renders one line per tool: its call signature from the
// parameter schema, then its description.
func describeTools(registry *tool.Registry) string {
	var sb strings.Builder
	for _, t := range registry.Tools() {
		fmt.Fprintf(&sb, "- %s(%s): %s\n", t.Name, signatureOf(t.Parameters), t.Description)
	}
	return sb.String()
}

// signatureOf lists a schema's parameters, required first, optional ones
// marked with a question mark.
func signatureOf(params json.RawMessage) string {
	var schema struct {
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	if len(params) == 0 || json.Unmarshal(params, &schema) != nil {
		return ""
	}

	required := make(map[string]bool, len(schema.Required))
	parts := make([]string, 0, len(schema.Properties))
	for _, name := range schema.Required {
		required[name] = true
		parts = append(parts, name)
	}

	optional := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if !required[name] {
			optional = append(optional, name+"?")
		}
	}
	// Map order is random; keep optional parameters sorted.
	sort.Strings(optional)
	return strings.Join(append(parts, optional...), ", ")
}

// buildMessages reconstructs the conversation for the next model call:
// system prompt, the question, then the trace with the model's own steps as
// assistant messages and observations as user messages.
func buildMessages(system, question string, trace ai.Trace) []ai.Message {
	messages := []ai.Message{
		ai.NewSystemMessage(system),
		ai.NewUserMessage(question),
	}

	for _, step := range trace {
		switch step.Kind {
		case ai.StepThought:
			messages = append(messages, ai.NewAssistantMessage("THOUGHT: "+step.Thought))
		case ai.StepAction:
			messages = append(messages, ai.NewAssistantMessage(
				fmt.Sprintf("ACTION: %s(%s)", step.Action.Name, step.Action.Arguments)))
		case ai.StepObservation:
			messages = append(messages, observationMessage(step.Observation))
		}
	}
	return messages
}

// observationMessage renders a tool outcome back to the model. Errors are
// labeled and followed by a nudge so the model corrects rather than repeats.
func observationMessage(obs *ai.Observation) ai.Message {
	if obs.IsError {
		return ai.NewUserMessage("OBSERVATION (error): " + obs.Content +
			"\nAdjust your next step based on this error.")
	}
	return ai.NewUserMessage("OBSERVATION: " + obs.Content)
}
