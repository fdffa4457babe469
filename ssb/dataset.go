package ssb

import (
	"sort"
	"time"
)

const (
	// TableHouseholdBudget is the Statistics Norway household budget survey
	// table (yearly consumption expenditure per household, by COICOP group).
	TableHouseholdBudget = "10235"

	// DefaultPeriod is the most recent published year for table 10235.
	DefaultPeriod = "2012"

	// UnitAnnualNOK is the unit of SpendingRecord.Amount as published.
	UnitAnnualNOK = "NOK per year"

	// DatasetSchemaVersion tags the cache payload layout. Cached entries
	// with a different version are treated as misses.
	DatasetSchemaVersion = 1
)

// SpendingRecord is one category's average household spending for one
// period. Records are immutable once parsed; identity is
// (CategoryCode, Period, TableID).
type SpendingRecord struct {
	// CategoryCode is the COICOP main group code, e.g. "04".
	CategoryCode string `json:"categoryCode"`
	// Category is the published label, e.g. "Housing, water, electricity...".
	Category string `json:"category"`
	// Period is the statistics year, e.g. "2012".
	Period string `json:"period"`
	// Amount is the average spending in NOK per year.
	Amount float64 `json:"amount"`
	// Unit describes Amount, always UnitAnnualNOK for this table.
	Unit string `json:"unit"`
	// TableID is the source table.
	TableID string `json:"tableId"`
}

// Monthly returns the amount converted to NOK per month.
func (r SpendingRecord) Monthly() float64 {
	return r.Amount / 12
}

// Dataset is an immutable snapshot of one table query. It is replaced as a
// whole on refresh and never mutated, so it is safe for concurrent readers.
type Dataset struct {
	TableID       string           `json:"tableId"`
	Period        string           `json:"period"`
	FetchedAt     time.Time        `json:"fetchedAt"`
	SchemaVersion int              `json:"schemaVersion"`
	Records       []SpendingRecord `json:"records"`

	byCode map[string]int
}

// NewDataset builds a dataset from parsed records. Records are ordered by
// category code and indexed for lookup.
func NewDataset(tableID, period string, fetchedAt time.Time, records []SpendingRecord) *Dataset {
	sorted := make([]SpendingRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CategoryCode < sorted[j].CategoryCode
	})

	byCode := make(map[string]int, len(sorted))
	for i, r := range sorted {
		byCode[r.CategoryCode] = i
	}

	return &Dataset{
		TableID:       tableID,
		Period:        period,
		FetchedAt:     fetchedAt,
		SchemaVersion: DatasetSchemaVersion,
		Records:       sorted,
		byCode:        byCode,
	}
}

// Record returns the spending record for a category code.
func (d *Dataset) Record(code string) (SpendingRecord, bool) {
	i, ok := d.byCode[code]
	if !ok {
		return SpendingRecord{}, false
	}
	return d.Records[i], true
}

// Total returns the summed annual spending across all categories.
func (d *Dataset) Total() float64 {
	var total float64
	for _, r := range d.Records {
		total += r.Amount
	}
	return total
}

// Len returns the number of category records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Age returns how long ago the dataset was fetched.
func (d *Dataset) Age(now time.Time) time.Duration {
	return now.Sub(d.FetchedAt)
}
