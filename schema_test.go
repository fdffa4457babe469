package grunnlag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFor(t *testing.T) {
	type args struct {
		Category string  `json:"category" desc:"Spending category" required:"true"`
		Period   string  `json:"period,omitempty" desc:"Statistics year" default:"2012"`
		Mode     string  `json:"mode" enum:"monthly,annual"`
		Limit    int     `json:"limit"`
		Ratio    float64 `json:"ratio"`
		Verbose  bool    `json:"verbose"`
		Tags     []string `json:"tags"`
	}

	raw, err := SchemaFor[args]()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []any{"category"}, schema["required"])

	props := schema["properties"].(map[string]any)
	category := props["category"].(map[string]any)
	assert.Equal(t, "string", category["type"])
	assert.Equal(t, "Spending category", category["description"])

	period := props["period"].(map[string]any)
	assert.Equal(t, "2012", period["default"])

	mode := props["mode"].(map[string]any)
	assert.Equal(t, []any{"monthly", "annual"}, mode["enum"])

	assert.Equal(t, "integer", props["limit"].(map[string]any)["type"])
	assert.Equal(t, "number", props["ratio"].(map[string]any)["type"])
	assert.Equal(t, "boolean", props["verbose"].(map[string]any)["type"])

	tags := props["tags"].(map[string]any)
	assert.Equal(t, "array", tags["type"])
	assert.Equal(t, "string", tags["items"].(map[string]any)["type"])
}

func TestSchemaForRequiredOrderFollowsFieldOrder(t *testing.T) {
	type args struct {
		CategoryA string `json:"category_a" required:"true"`
		CategoryB string `json:"category_b" required:"true"`
		Period    string `json:"period"`
	}

	raw := MustSchemaFor[args]()
	var schema struct {
		Required []string `json:"required"`
	}
	require.NoError(t, json.Unmarshal(raw, &schema))
	assert.Equal(t, []string{"category_a", "category_b"}, schema.Required)
}

func TestSchemaForNestedStruct(t *testing.T) {
	type inner struct {
		Code string `json:"code" required:"true"`
	}
	type outer struct {
		Selection inner `json:"selection"`
	}

	raw, err := SchemaFor[outer]()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))
	selection := schema["properties"].(map[string]any)["selection"].(map[string]any)
	assert.Equal(t, "object", selection["type"])
	assert.Equal(t, []any{"code"}, selection["required"])
}

func TestSchemaForSkipsUnexportedAndIgnoredFields(t *testing.T) {
	type args struct {
		Visible string `json:"visible"`
		Hidden  string `json:"-"`
		private string `json:"private"` //nolint:unused
	}

	raw, err := SchemaFor[args]()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))
	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "visible")
	assert.NotContains(t, props, "Hidden")
	assert.NotContains(t, props, "private")
	assert.Len(t, props, 1)
}

func TestSchemaForNonStruct(t *testing.T) {
	_, err := SchemaFor[string]()
	assert.Error(t, err)
}
