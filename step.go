package grunnlag

import (
	"fmt"
	"strings"
)

// StepKind tags the variant held by a reasoning Step.
type StepKind string

const (
	StepThought     StepKind = "thought"
	StepAction      StepKind = "action"
	StepObservation StepKind = "observation"
	StepFinalAnswer StepKind = "final_answer"
)

// Step is one entry in a reasoning trace. Exactly one of the payload fields
// is set, selected by Kind.
type Step struct {
	Kind        StepKind     `json:"kind"`
	Thought     string       `json:"thought,omitempty"`
	Action      *ToolCall    `json:"action,omitempty"`
	Observation *Observation `json:"observation,omitempty"`
	Answer      string       `json:"answer,omitempty"`
}

// ThoughtStep creates a reasoning-text step.
func ThoughtStep(text string) Step {
	return Step{Kind: StepThought, Thought: text}
}

// ActionStep creates a proposed-tool-call step.
func ActionStep(call ToolCall) Step {
	return Step{Kind: StepAction, Action: &call}
}

// ObservationStep creates a tool-result step.
func ObservationStep(obs *Observation) Step {
	return Step{Kind: StepObservation, Observation: obs}
}

// AnswerStep creates a final-answer step.
func AnswerStep(text string) Step {
	return Step{Kind: StepFinalAnswer, Answer: text}
}

// Trace is the ordered record of reasoning steps for one question.
// It is owned by a single loop invocation and read-only once returned.
type Trace []Step

// Observations returns the observations in the trace, in order.
func (t Trace) Observations() []Observation {
	var out []Observation
	for _, s := range t {
		if s.Kind == StepObservation && s.Observation != nil {
			out = append(out, *s.Observation)
		}
	}
	return out
}

// Actions returns the tool calls proposed in the trace, in order.
func (t Trace) Actions() []ToolCall {
	var out []ToolCall
	for _, s := range t {
		if s.Kind == StepAction && s.Action != nil {
			out = append(out, *s.Action)
		}
	}
	return out
}

// Render formats the trace as human-readable THOUGHT/ACTION/OBSERVATION/ANSWER
// lines for inspection and evaluation output.
func (t Trace) Render() string {
	var b strings.Builder
	for _, s := range t {
		switch s.Kind {
		case StepThought:
			fmt.Fprintf(&b, "THOUGHT: %s\n", s.Thought)
		case StepAction:
			fmt.Fprintf(&b, "ACTION: %s %s\n", s.Action.Name, s.Action.Arguments)
		case StepObservation:
			if s.Observation.IsError {
				fmt.Fprintf(&b, "OBSERVATION (error): %s\n", s.Observation.Content)
			} else {
				fmt.Fprintf(&b, "OBSERVATION: %s\n", s.Observation.Content)
			}
		case StepFinalAnswer:
			fmt.Fprintf(&b, "ANSWER: %s\n", s.Answer)
		}
	}
	return b.String()
}
