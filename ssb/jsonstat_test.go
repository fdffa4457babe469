package ssb

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPayload builds a minimal json-stat2 document with the given category
// code to annual-amount mapping, in map iteration-independent form.
func testPayload(t *testing.T, period string, amounts map[string]float64) []byte {
	t.Helper()

	codes := make([]string, 0, len(amounts))
	for code := range amounts {
		codes = append(codes, code)
	}
	// Deterministic index assignment.
	for i := 0; i < len(codes); i++ {
		for j := i + 1; j < len(codes); j++ {
			if codes[j] < codes[i] {
				codes[i], codes[j] = codes[j], codes[i]
			}
		}
	}

	index := make(map[string]int, len(codes))
	labels := make(map[string]string, len(codes))
	values := make([]*float64, len(codes))
	for i, code := range codes {
		index[code] = i
		labels[code] = "Group " + code
		v := amounts[code]
		values[i] = &v
	}

	doc := map[string]any{
		"class": "dataset",
		"label": "Expenditure per household, by commodity and service group",
		"id":    []string{dimCategory, "ContentsCode", dimTime},
		"size":  []int{len(codes), 1, 1},
		"dimension": map[string]any{
			dimCategory: map[string]any{
				"label":    "commodity and service group",
				"category": map[string]any{"index": index, "label": labels},
			},
			"ContentsCode": map[string]any{
				"label":    "contents",
				"category": map[string]any{"index": map[string]int{"Utgift": 0}, "label": map[string]string{"Utgift": "Expenditure (NOK)"}},
			},
			dimTime: map[string]any{
				"label":    "year",
				"category": map[string]any{"index": map[string]int{period: 0}, "label": map[string]string{period: period}},
			},
		},
		"value": values,
	}

	payload, err := json.Marshal(doc)
	require.NoError(t, err)
	return payload
}

func TestParseHouseholdDataset(t *testing.T) {
	fetchedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	payload := testPayload(t, "2012", map[string]float64{
		"01": 78520,
		"04": 182808,
		"07": 74540,
	})

	ds, err := parseHouseholdDataset(TableHouseholdBudget, payload, fetchedAt)
	require.NoError(t, err)

	assert.Equal(t, TableHouseholdBudget, ds.TableID)
	assert.Equal(t, "2012", ds.Period)
	assert.Equal(t, fetchedAt, ds.FetchedAt)
	require.Equal(t, 3, ds.Len())

	housing, ok := ds.Record("04")
	require.True(t, ok)
	assert.Equal(t, "Group 04", housing.Category)
	assert.InDelta(t, 182808.0, housing.Amount, 1e-9)
	assert.InDelta(t, 15234.0, housing.Monthly(), 1e-9)
	assert.Equal(t, UnitAnnualNOK, housing.Unit)

	// Records come out ordered by category code.
	assert.Equal(t, "01", ds.Records[0].CategoryCode)
	assert.Equal(t, "04", ds.Records[1].CategoryCode)
	assert.Equal(t, "07", ds.Records[2].CategoryCode)

	assert.InDelta(t, 78520+182808+74540, ds.Total(), 1e-9)
}

func TestParseHouseholdDatasetSkipsSuppressedCells(t *testing.T) {
	payload := testPayload(t, "2012", map[string]float64{"01": 78520, "12": 30000})

	var doc map[string]any
	require.NoError(t, json.Unmarshal(payload, &doc))
	doc["value"] = []any{78520.0, nil}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	ds, err := parseHouseholdDataset(TableHouseholdBudget, payload, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	_, ok := ds.Record("12")
	assert.False(t, ok)
}

func TestParseHouseholdDatasetRejectsMalformedPayloads(t *testing.T) {
	valid := testPayload(t, "2012", map[string]float64{"01": 78520, "04": 182808})

	mutate := func(t *testing.T, fn func(doc map[string]any)) []byte {
		t.Helper()
		var doc map[string]any
		require.NoError(t, json.Unmarshal(valid, &doc))
		fn(doc)
		payload, err := json.Marshal(doc)
		require.NoError(t, err)
		return payload
	}

	tests := []struct {
		name    string
		payload []byte
	}{
		{"not JSON", []byte("<html>service unavailable</html>")},
		{"size mismatch", mutate(t, func(doc map[string]any) {
			doc["size"] = []int{2, 1}
		})},
		{"truncated values", mutate(t, func(doc map[string]any) {
			doc["value"] = []float64{78520}
		})},
		{"missing category dimension", mutate(t, func(doc map[string]any) {
			dims := doc["dimension"].(map[string]any)
			delete(dims, dimCategory)
		})},
		{"missing time dimension", mutate(t, func(doc map[string]any) {
			dims := doc["dimension"].(map[string]any)
			delete(dims, dimTime)
		})},
		{"all values suppressed", mutate(t, func(doc map[string]any) {
			doc["value"] = []any{nil, nil}
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := parseHouseholdDataset(TableHouseholdBudget, tt.payload, time.Now())
			assert.Nil(t, ds)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, TableHouseholdBudget, parseErr.TableID)
			assert.True(t, IsUnrecoverable(err), "parse errors must be unrecoverable")
		})
	}
}

func TestParseHouseholdDatasetStrideOrder(t *testing.T) {
	// Category last in the dimension list: stride becomes 1 and values are
	// laid out category-major in the flat array.
	ptr := func(v float64) *float64 { return &v }
	doc := map[string]any{
		"id":   []string{dimTime, dimCategory},
		"size": []int{1, 2},
		"dimension": map[string]any{
			dimCategory: map[string]any{
				"category": map[string]any{
					"index": map[string]int{"01": 0, "04": 1},
					"label": map[string]string{"01": "Food", "04": "Housing"},
				},
			},
			dimTime: map[string]any{
				"category": map[string]any{
					"index": map[string]int{"2012": 0},
					"label": map[string]string{"2012": "2012"},
				},
			},
		},
		"value": []*float64{ptr(100), ptr(200)},
	}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	ds, err := parseHouseholdDataset(TableHouseholdBudget, payload, time.Now())
	require.NoError(t, err)

	food, ok := ds.Record("01")
	require.True(t, ok)
	assert.InDelta(t, 100.0, food.Amount, 1e-9)
	housing, ok := ds.Record("04")
	require.True(t, ok)
	assert.InDelta(t, 200.0, housing.Amount, 1e-9)
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		in   string
		code string
		ok   bool
	}{
		{"food", "01", true},
		{"Food", "01", true},
		{"groceries", "01", true},
		{"housing", "04", true},
		{"rent", "04", true},
		{"transport", "07", true},
		{"transportation", "07", true},
		{"07", "07", true},
		{"clothing", "03", true},
		{"transportation_xyz", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			code, ok := ResolveCategory(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("boom")
	fetchErr := &FetchError{TableID: "10235", Err: cause}
	assert.ErrorIs(t, fetchErr, cause)
	assert.True(t, IsUnrecoverable(fetchErr))

	wrapped := fmt.Errorf("tool failed: %w", fetchErr)
	assert.True(t, IsUnrecoverable(wrapped))

	assert.False(t, IsUnrecoverable(errors.New("some other failure")))
	assert.False(t, IsUnrecoverable(nil))
}
