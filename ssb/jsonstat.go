package ssb

import (
	"encoding/json"
	"fmt"
	"time"
)

// dimCategory and dimTime are the dimension codes used by table 10235.
const (
	dimCategory = "Forbruksundersok"
	dimTime     = "Tid"
)

// jsonStat2 models the subset of the json-stat2 response we consume.
type jsonStat2 struct {
	Class     string                  `json:"class"`
	Label     string                  `json:"label"`
	ID        []string                `json:"id"`
	Size      []int                   `json:"size"`
	Updated   string                  `json:"updated"`
	Dimension map[string]jsonStatDim  `json:"dimension"`
	Value     []*float64              `json:"value"`
}

type jsonStatDim struct {
	Label    string           `json:"label"`
	Category jsonStatCategory `json:"category"`
}

type jsonStatCategory struct {
	Index map[string]int    `json:"index"`
	Label map[string]string `json:"label"`
}

// parseHouseholdDataset flattens a json-stat2 payload into a Dataset.
// The payload is validated before anything is accepted: the dimension list
// must match the declared sizes, and the value array length must equal the
// product of the sizes, so a truncated or reshaped response is rejected as
// a whole rather than partially ingested.
func parseHouseholdDataset(tableID string, payload []byte, fetchedAt time.Time) (*Dataset, error) {
	var doc jsonStat2
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, &ParseError{TableID: tableID, Reason: "invalid JSON", Err: err}
	}

	if len(doc.ID) == 0 || len(doc.ID) != len(doc.Size) {
		return nil, &ParseError{
			TableID: tableID,
			Reason:  fmt.Sprintf("dimension list (%d) does not match size list (%d)", len(doc.ID), len(doc.Size)),
		}
	}

	expected := 1
	for _, n := range doc.Size {
		expected *= n
	}
	if expected != len(doc.Value) {
		return nil, &ParseError{
			TableID: tableID,
			Reason:  fmt.Sprintf("value array has %d entries, dimensions declare %d", len(doc.Value), expected),
		}
	}

	catDim, ok := doc.Dimension[dimCategory]
	if !ok {
		return nil, &ParseError{TableID: tableID, Reason: "missing dimension " + dimCategory}
	}
	timeDim, ok := doc.Dimension[dimTime]
	if !ok {
		return nil, &ParseError{TableID: tableID, Reason: "missing dimension " + dimTime}
	}

	period := singleLabel(timeDim.Category)
	if period == "" {
		return nil, &ParseError{TableID: tableID, Reason: "missing time label"}
	}

	// Position-dependent stride: the value index of a cell is the sum of
	// each dimension's category index times the product of all later sizes.
	strides := make(map[string]int, len(doc.ID))
	stride := 1
	for i := len(doc.ID) - 1; i >= 0; i-- {
		strides[doc.ID[i]] = stride
		stride *= doc.Size[i]
	}
	catStride, ok := strides[dimCategory]
	if !ok {
		return nil, &ParseError{TableID: tableID, Reason: dimCategory + " not in dimension list"}
	}

	records := make([]SpendingRecord, 0, len(catDim.Category.Label))
	for code, label := range catDim.Category.Label {
		idx, ok := categoryIndex(catDim.Category, code)
		if !ok {
			return nil, &ParseError{TableID: tableID, Reason: "category " + code + " has no index"}
		}
		valueIdx := idx * catStride
		if valueIdx < 0 || valueIdx >= len(doc.Value) {
			return nil, &ParseError{
				TableID: tableID,
				Reason:  fmt.Sprintf("category %s maps to value index %d of %d", code, valueIdx, len(doc.Value)),
			}
		}
		v := doc.Value[valueIdx]
		if v == nil {
			// Suppressed cell; published tables mark confidential values null.
			continue
		}
		records = append(records, SpendingRecord{
			CategoryCode: code,
			Category:     label,
			Period:       period,
			Amount:       *v,
			Unit:         UnitAnnualNOK,
			TableID:      tableID,
		})
	}

	if len(records) == 0 {
		return nil, &ParseError{TableID: tableID, Reason: "no category values in payload"}
	}

	return NewDataset(tableID, period, fetchedAt, records), nil
}

func categoryIndex(c jsonStatCategory, code string) (int, bool) {
	if c.Index != nil {
		i, ok := c.Index[code]
		return i, ok
	}
	// A single-category dimension may omit the index entirely.
	if len(c.Label) == 1 {
		return 0, true
	}
	return 0, false
}

func singleLabel(c jsonStatCategory) string {
	for _, label := range c.Label {
		return label
	}
	return ""
}
