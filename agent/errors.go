package agent

import (
	"errors"
	"fmt"
)

// ErrIterationLimit is returned in Result.Err when the loop reaches its
// iteration cap without a final answer.
var ErrIterationLimit = errors.New("agent: iteration limit reached without a final answer")

// ErrMalformedOutput is returned in Result.Err when the model produces
// unparseable output on consecutive iterations.
var ErrMalformedOutput = errors.New("agent: model output did not follow the step grammar")

// StepParseError describes one model reply that matched no step form.
// It unwraps to ErrMalformedOutput.
type StepParseError struct {
	Output string
}

func (e *StepParseError) Error() string {
	return fmt.Sprintf("no THOUGHT, ACTION or FINAL ANSWER found in model output (%d bytes)", len(e.Output))
}

// Unwrap makes errors.Is(err, ErrMalformedOutput) hold.
func (e *StepParseError) Unwrap() error {
	return ErrMalformedOutput
}
