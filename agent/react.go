package agent

import (
	"context"
	"encoding/json"

	ai "github.com/perolav/grunnlag"
	"github.com/perolav/grunnlag/chat"
	"github.com/perolav/grunnlag/ssb"
	"github.com/perolav/grunnlag/tool"
)

// React is the bounded thought/action/observation reasoning loop. Each
// iteration is one model call; the model either proposes a tool call, whose
// observation is fed back, or concludes with a final answer.
type React struct {
	chat     chat.Client
	registry *tool.Registry
}

// NewReact creates the reasoning-loop agent.
func NewReact(c chat.Client, registry *tool.Registry) *React {
	return &React{
		chat:     c,
		registry: registry,
	}
}

// Answer runs the loop for one question. The returned Result is always
// non-nil and carries the trace; on failure the returned error equals
// Result.Err.
//
// Failure handling is two-tiered. A malformed model reply or a failed model
// call gets one corrective retry; two in a row fail the run. Tool errors the
// model can act on (unknown category, bad arguments, timeouts) become error
// observations in the trace; data-store errors no rephrasing can fix
// terminate immediately.
func (a *React) Answer(ctx context.Context, question string, opts ...Option) (*ai.Result, error) {
	options := ApplyOptions(opts...)
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	system := reactSystemPrompt(a.registry)
	rec := NewRecorder(question)
	var usage ai.Usage
	failures := 0

	for iteration := 1; iteration <= options.MaxIterations; iteration++ {
		if ctx.Err() != nil {
			result := rec.Fail(ctx.Err(), iteration-1, usage)
			return result, result.Err
		}

		resp, err := callModel(ctx, a.chat, buildMessages(system, question, rec.Steps()), options)
		if err != nil {
			failures++
			if failures >= 2 || ctx.Err() != nil {
				result := rec.Fail(err, iteration, usage)
				return result, result.Err
			}
			options.Logger.Warn("agent: model call failed, retrying", "iteration", iteration, "err", err)
			continue
		}
		usage.Add(resp.Usage)

		step, err := parseModelStep(resp.Content)
		if err != nil {
			failures++
			if failures >= 2 {
				result := rec.Fail(err, iteration, usage)
				return result, result.Err
			}
			options.Logger.Warn("agent: unparseable model reply, re-prompting", "iteration", iteration)
			rec.Observe(&ai.Observation{
				Content: "The reply did not follow the required format. Use THOUGHT:, " +
					"ACTION: tool_name({...}) or FINAL ANSWER: lines.",
				IsError: true,
			})
			continue
		}
		failures = 0

		if step.Thought != "" {
			rec.Thought(step.Thought)
		}

		if step.HasAnswer {
			options.Logger.Debug("agent: concluded", "iterations", iteration)
			return rec.Conclude(step.Answer, iteration, usage), nil
		}

		if step.Action == nil {
			// Thought without an action consumes the iteration; the next
			// model call sees the same conversation plus its own thought.
			continue
		}

		obs, err := a.execute(ctx, rec, step.Action, options)
		if err != nil {
			result := rec.Fail(err, iteration, usage)
			return result, result.Err
		}
		rec.Observe(obs)
		options.Logger.Debug("agent: observation", "iteration", iteration, "tool", step.Action.Name, "error", obs.IsError)
	}

	result := rec.Fail(ErrIterationLimit, options.MaxIterations, usage)
	return result, result.Err
}

// execute resolves an action's arguments and runs the tool. Errors the
// model can recover from come back as error observations; only
// unrecoverable data-store failures are returned as errors.
func (a *React) execute(ctx context.Context, rec *Recorder, act *action, options *Options) (*ai.Observation, error) {
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

// callModel makes one model call under the per-call timeout.
func callModel(ctx context.Context, c chat.Client, messages []ai.Message, options *Options) (*ai.Response, error) {
	if options.LLMTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.LLMTimeout)
		defer cancel()
	}
	return c.Chat(ctx, messages, options.ChatOptions...)
}
