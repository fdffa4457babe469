package agent

import (
	ai "github.com/perolav/grunnlag"
)

// Recorder accumulates the step trace for one run. Steps are append-only;
// nothing is rewritten after the fact, so the trace is a faithful record of
// what happened in order.
type Recorder struct {
	question string
	steps    ai.Trace
}

// NewRecorder starts a trace for the given question.
func NewRecorder(question string) *Recorder {
	return &Recorder{question: question}
}

// Thought appends a reasoning step.
func (r *Recorder) Thought(text string) {
	r.steps = append(r.steps, ai.ThoughtStep(text))
}

// Action appends a proposed tool call.
func (r *Recorder) Action(call ai.ToolCall) {
	r.steps = append(r.steps, ai.ActionStep(call))
}

// Observe appends a tool outcome.
func (r *Recorder) Observe(obs *ai.Observation) {
	r.steps = append(r.steps, ai.ObservationStep(obs))
}

// Steps returns the trace recorded so far. The returned slice aliases the
// recorder's storage; treat it as read-only.
func (r *Recorder) Steps() ai.Trace {
	return r.steps
}

// Conclude appends the final answer and seals the run into a Result.
func (r *Recorder) Conclude(answer string, iterations int, usage ai.Usage) *ai.Result {
	r.steps = append(r.steps, ai.AnswerStep(answer))
	return &ai.Result{
		Question:   r.question,
		Answer:     answer,
		Trace:      r.steps,
		Iterations: iterations,
		Status:     ai.StatusConcluded,
		Usage:      usage,
	}
}

// Fail seals the run into a failed Result carrying the partial trace and
// the terminal cause.
func (r *Recorder) Fail(err error, iterations int, usage ai.Usage) *ai.Result {
	return &ai.Result{
		Question:   r.question,
		Trace:      r.steps,
		Iterations: iterations,
		Status:     ai.StatusFailed,
		Usage:      usage,
		Err:        err,
	}
}
