package agent

import (
	"context"
	"encoding/json"
	"strings"

	ai "github.com/perolav/grunnlag"
	"github.com/perolav/grunnlag/chat"
	"github.com/perolav/grunnlag/ssb"
	"github.com/perolav/grunnlag/tool"
)

// Baseline is the single-step control agent. It gets one shot: answer
// directly, or make exactly one tool call and then answer. There is no
// retry and no corrective re-prompt, so comparing its results against the
// reasoning loop isolates what the loop itself contributes.
type Baseline struct {
	chat     chat.Client
	registry *tool.Registry
}

// NewBaseline creates the single-step agent.
func NewBaseline(c chat.Client, registry *tool.Registry) *Baseline {
	return &Baseline{
		chat:     c,
		registry: registry,
	}
}

// Answer answers one question with at most one tool call. The returned
// Result is always non-nil; on failure the returned error equals Result.Err.
func (a *Baseline) Answer(ctx context.Context, question string, opts ...Option) (*ai.Result, error) {
	options := ApplyOptions(opts...)
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	system := baselineSystemPrompt(a.registry)
	rec := NewRecorder(question)
	var usage ai.Usage

	resp, err := callModel(ctx, a.chat, buildMessages(system, question, nil), options)
	if err != nil {
		result := rec.Fail(err, 0, usage)
		return result, result.Err
	}
	usage.Add(resp.Usage)

	step, perr := parseModelStep(resp.Content)
	if perr != nil {
		// A reply with no markers is taken verbatim as the answer; the
		// control agent does not get a corrective round-trip.
		return rec.Conclude(strings.TrimSpace(resp.Content), 1, usage), nil
	}

	if step.Thought != "" {
		rec.Thought(step.Thought)
	}
	if step.HasAnswer {
		return rec.Conclude(step.Answer, 1, usage), nil
	}
	if step.Action == nil {
		result := rec.Fail(&StepParseError{Output: resp.Content}, 1, usage)
		return result, result.Err
	}

	obs, err := a.executeOnce(ctx, rec, step.Action, options)
	if err != nil {
		result := rec.Fail(err, 1, usage)
		return result, result.Err
	}
	rec.Observe(obs)

	resp, err = callModel(ctx, a.chat, buildMessages(system, question, rec.Steps()), options)
	if err != nil {
		result := rec.Fail(err, 1, usage)
		return result, result.Err
	}
	usage.Add(resp.Usage)

	answer := strings.TrimSpace(resp.Content)
	if step, perr := parseModelStep(resp.Content); perr == nil {
		if step.Thought != "" {
			rec.Thought(step.Thought)
		}
		if step.HasAnswer {
			answer = step.Answer
		}
	}
	return rec.Conclude(answer, 2, usage), nil
}

func (a *Baseline) executeOnce(ctx context.Context, rec *Recorder, act *action, options *Options) (*ai.Observation, error) {
	call := ai.ToolCall{ID: ai.GenerateCallID(), Name: act.Name}

	var params json.RawMessage
	if def, ok := a.registry.GetTool(act.Name); ok {
		params = def.Parameters
	}

	args, err := resolveArguments(act.Name, params, act.RawArgs)
	if err != nil {
		call.Arguments = act.RawArgs
		rec.Action(call)
		return ai.NewErrorObservation(call, err), nil
	}
	call.Arguments = args
	rec.Action(call)

	execCtx := ctx
	if options.ToolTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, options.ToolTimeout)
		defer cancel()
	}

	obs, err := a.registry.Execute(execCtx, call)
	if err != nil {
		if ssb.IsUnrecoverable(err) {
			rec.Observe(ai.NewErrorObservation(call, err))
			return nil, err
		}
		return ai.NewErrorObservation(call, err), nil
	}
	return obs, nil
}
