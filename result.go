package grunnlag

// Status reports how an agent invocation terminated.
type Status string

const (
	// StatusConcluded means the model produced a final answer.
	StatusConcluded Status = "concluded"
	// StatusFailed means the loop terminated without a final answer:
	// iteration limit, repeated malformed output, or an unrecoverable
	// data-store error. The partial trace is still attached.
	StatusFailed Status = "failed"
)

// Result is what both agents return for a question, success or failure.
// Callers always receive a well-formed Result; terminal errors are carried
// in Err alongside the partial trace rather than thrown past the boundary.
type Result struct {
	// Question is the natural-language question that was asked.
	Question string `json:"question"`
	// Answer is the final answer text. Empty when Status is StatusFailed.
	Answer string `json:"answer,omitempty"`
	// Trace is the ordered record of reasoning steps.
	Trace Trace `json:"trace"`
	// Iterations counts model calls made while answering.
	Iterations int `json:"iterations"`
	// Status reports whether the agent concluded or failed.
	Status Status `json:"status"`
	// Usage accumulates token usage across all model calls.
	Usage Usage `json:"usage"`
	// Err holds the terminal failure cause. Nil when Status is StatusConcluded.
	Err error `json:"-"`
}

// Concluded returns true if the agent reached a final answer.
func (r *Result) Concluded() bool {
	return r.Status == StatusConcluded
}
