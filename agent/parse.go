package agent

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/perolav/grunnlag/tool"
)

// action is a tool invocation as written by the model, arguments unresolved.
type action struct {
	Name    string
	RawArgs string
}

// parsedStep is one model reply decomposed into step-grammar parts.
type parsedStep struct {
	Thought   string
	Action    *action
	Answer    string
	HasAnswer bool
}

var (
	markerPattern = regexp.MustCompile(`(?mi)^[ \t]*(THOUGHT|ACTION|FINAL ANSWER):`)
	namePattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// parseModelStep decomposes a model reply according to the step grammar.
// Markers are matched at line starts, case-insensitively; each segment runs
// until the next marker. A reply with no marker at all is a *StepParseError.
func parseModelStep(output string) (*parsedStep, error) {
	matches := markerPattern.FindAllStringSubmatchIndex(output, -1)
	if len(matches) == 0 {
		return nil, &StepParseError{Output: output}
	}

	step := &parsedStep{}
	for i, m := range matches {
		keyword := strings.ToUpper(output[m[2]:m[3]])
		end := len(output)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		segment := strings.TrimSpace(output[m[1]:end])

		switch keyword {
		case "THOUGHT":
			if step.Thought == "" {
				step.Thought = segment
			}
		case "ACTION":
			if step.Action == nil {
				step.Action = parseAction(segment)
			}
		case "FINAL ANSWER":
			if !step.HasAnswer {
				step.Answer = segment
				step.HasAnswer = true
			}
		}
	}

	if !step.HasAnswer && step.Action == nil && step.Thought == "" {
		return nil, &StepParseError{Output: output}
	}
	return step, nil
}

// parseAction splits "tool_name(raw args)" into name and raw argument text.
// A bare tool name without parentheses is a zero-argument call. Anything
// that does not look like an invocation yields nil, which the loop treats
// the same as an unparseable reply.
func parseAction(segment string) *action {
	open := strings.Index(segment, "(")
	if open < 0 {
		name := strings.TrimSpace(segment)
		if !namePattern.MatchString(name) {
			return nil
		}
		return &action{Name: name}
	}

	name := strings.TrimSpace(segment[:open])
	if !namePattern.MatchString(name) {
		return nil
	}

	end := strings.LastIndex(segment, ")")
	if end < open {
		// Unclosed call; take everything after the paren as arguments and
		// let repair or decoding sort it out.
		end = len(segment)
	}
	return &action{Name: name, RawArgs: strings.TrimSpace(segment[open+1 : end])}
}

// resolveArguments turns the raw argument text of an action into a JSON
// object string matching the tool's parameter schema. Object arguments are
// accepted as-is when valid and repaired when almost valid; positional
// arguments are matched to the schema's required fields in declared order.
func resolveArguments(toolName string, params json.RawMessage, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "{}", nil
	}

	if strings.HasPrefix(raw, "{") {
		if json.Valid([]byte(raw)) {
			return raw, nil
		}
		repaired, err := jsonrepair.JSONRepair(raw)
		if err != nil || !json.Valid([]byte(repaired)) {
			return "", &tool.ArgumentError{Tool: toolName, Reason: "argument object is not valid JSON", Err: err}
		}
		return repaired, nil
	}

	// Positional form, e.g. get_spending("housing").
	var schema struct {
		Required []string `json:"required"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &schema); err != nil {
			return "", &tool.ArgumentError{Tool: toolName, Reason: "tool schema is not valid JSON", Err: err}
		}
	}

	values := splitPositional(raw)
	if len(values) > len(schema.Required) {
		return "", &tool.ArgumentError{
			Tool:   toolName,
			Reason: "got " + strconv.Itoa(len(values)) + " positional arguments, tool declares " + strconv.Itoa(len(schema.Required)) + " required parameters",
		}
	}

	args := make(map[string]any, len(values))
	for i, v := range values {
		args[schema.Required[i]] = positionalValue(v)
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return "", &tool.ArgumentError{Tool: toolName, Reason: "encode arguments", Err: err}
	}
	return string(encoded), nil
}

// splitPositional splits comma-separated argument text, honoring quotes and
// bracket nesting.
func splitPositional(raw string) []string {
	var values []string
	var current strings.Builder
	depth := 0
	var quote rune

	for _, r := range raw {
		switch {
		case quote != 0:
			current.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			current.WriteRune(r)
		case r == '(' || r == '[' || r == '{':
			depth++
			current.WriteRune(r)
		case r == ')' || r == ']' || r == '}':
			depth--
			current.WriteRune(r)
		case r == ',' && depth == 0:
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		values = append(values, s)
	}
	return values
}

// positionalValue interprets one positional argument literal. Quoted text is
// a string; otherwise numbers and booleans are recognized and anything else
// is taken as a bare string.
func positionalValue(v string) any {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v
}
