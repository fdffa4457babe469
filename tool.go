package grunnlag

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Tool defines a named operation the model can request.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string
	// Description explains what the tool does (helps the model decide when to use it).
	Description string
	// Parameters is a JSON Schema object defining the tool's parameters.
	Parameters json.RawMessage
}

// ToolCall represents a request, proposed by the model, to invoke a tool.
type ToolCall struct {
	// ID is a unique identifier for this call (used to correlate observations).
	ID string `json:"id"`
	// Name is the name of the tool to invoke.
	Name string `json:"name"`
	// Arguments is a JSON object string containing the arguments to pass.
	Arguments string `json:"arguments"`
}

// GenerateCallID creates a unique tool call identifier.
func GenerateCallID() string {
	return "call-" + uuid.New().String()
}

// Provenance identifies the dataset slice an observation was derived from.
type Provenance struct {
	// TableID is the Statistics Norway table the value came from.
	TableID string `json:"tableId"`
	// Period is the statistics year of the value.
	Period string `json:"period"`
}

// Observation is the immutable outcome of executing a tool call.
// Successful observations carry provenance so an answer can be audited
// against the dataset that produced it. Failed executions set IsError and
// put the error message in Content so the model can adapt.
type Observation struct {
	// ToolName is the tool that produced this observation.
	ToolName string `json:"toolName"`
	// CallID correlates the observation with its ToolCall.
	CallID string `json:"callId,omitempty"`
	// Content is the result text fed back to the model.
	Content string `json:"content"`
	// Provenance is set on successful data lookups, nil on errors.
	Provenance *Provenance `json:"provenance,omitempty"`
	// IsError indicates the tool invocation failed.
	IsError bool `json:"isError,omitempty"`
}

// NewObservation creates a successful observation with provenance.
func NewObservation(call ToolCall, content string, prov Provenance) *Observation {
	return &Observation{
		ToolName:   call.Name,
		CallID:     call.ID,
		Content:    content,
		Provenance: &prov,
	}
}

// NewErrorObservation creates an observation recording a failed invocation.
func NewErrorObservation(call ToolCall, err error) *Observation {
	return &Observation{
		ToolName: call.Name,
		CallID:   call.ID,
		Content:  err.Error(),
		IsError:  true,
	}
}
