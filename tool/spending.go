package tool

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	ai "github.com/perolav/grunnlag"
	"github.com/perolav/grunnlag/ssb"
)

// DatasetSource resolves a (table, period) to a spending dataset. It is
// satisfied by *ssb.Store; tests substitute a fixture.
type DatasetSource interface {
	Dataset(ctx context.Context, tableID, period string) (*ssb.Dataset, error)
}

// SpendingArgs selects one spending category.
type SpendingArgs struct {
	Category string `json:"category" desc:"Spending category, an everyday name like \"housing\" or a COICOP code like \"04\"" required:"true"`
	Period   string `json:"period,omitempty" desc:"Statistics year, defaults to the latest published year"`
}

// CompareArgs selects two spending categories to compare.
type CompareArgs struct {
	CategoryA string `json:"category_a" desc:"First spending category" required:"true"`
	CategoryB string `json:"category_b" desc:"Second spending category" required:"true"`
	Period    string `json:"period,omitempty" desc:"Statistics year, defaults to the latest published year"`
}

// ListArgs has no required fields; period is optional.
type ListArgs struct {
	Period string `json:"period,omitempty" desc:"Statistics year, defaults to the latest published year"`
}

// SpendingTools builds the household-spending tool set on top of source.
// Pass the result to Registry.Add.
func SpendingTools(source DatasetSource) []Registration {
	return []Registration{
		Func("get_spending",
			"Get the average Norwegian household's spending for one category, in NOK per year and per month.",
			func(ctx context.Context, args SpendingArgs) (string, ai.Provenance, error) {
				return getSpending(ctx, source, args)
			}),
		Func("compare_spending",
			"Compare the average household's spending between two categories, with the ratio and monthly difference.",
			func(ctx context.Context, args CompareArgs) (string, ai.Provenance, error) {
				return compareSpending(ctx, source, args)
			}),
		Func("list_categories",
			"List the spending categories available in the household budget survey.",
			func(ctx context.Context, args ListArgs) (string, ai.Provenance, error) {
				return listCategories(ctx, source, args)
			}),
		Func("get_total_spending",
			"Get the average household's total spending across all categories, in NOK per year and per month.",
			func(ctx context.Context, args ListArgs) (string, ai.Provenance, error) {
				return totalSpending(ctx, source, args)
			}),
	}
}

func getSpending(ctx context.Context, source DatasetSource, args SpendingArgs) (string, ai.Provenance, error) {
	record, ds, err := lookupRecord(ctx, source, "get_spending", args.Category, args.Period)
	if err != nil {
		return "", ai.Provenance{}, err
	}

	content := fmt.Sprintf(
		"Average household spending on %s (%s) in %s: %s NOK per year (%s NOK per month). Source: SSB table %s.",
		record.Category, record.CategoryCode, record.Period,
		formatNOK(record.Amount), formatNOK(record.Monthly()), record.TableID)
	return content, provenanceOf(ds), nil
}

func compareSpending(ctx context.Context, source DatasetSource, args CompareArgs) (string, ai.Provenance, error) {
	a, ds, err := lookupRecord(ctx, source, "compare_spending", args.CategoryA, args.Period)
	if err != nil {
		return "", ai.Provenance{}, err
	}
	b, _, err := lookupRecord(ctx, source, "compare_spending", args.CategoryB, args.Period)
	if err != nil {
		return "", ai.Provenance{}, err
	}

	// Phrase from the larger category so the ratio is always >= 1.
	larger, smaller := a, b
	if b.Amount > a.Amount {
		larger, smaller = b, a
	}

	var comparison string
	if smaller.Amount > 0 {
		comparison = fmt.Sprintf("%.2f times as much on %s as on %s",
			larger.Amount/smaller.Amount, larger.Category, smaller.Category)
	} else {
		comparison = fmt.Sprintf("on %s but nothing on %s", larger.Category, smaller.Category)
	}

	content := fmt.Sprintf(
		"In %s the average household spent %s (%s NOK per month vs %s NOK per month). The monthly difference is %s NOK. Source: SSB table %s.",
		larger.Period, comparison,
		formatNOK(larger.Monthly()), formatNOK(smaller.Monthly()),
		formatNOK(larger.Monthly()-smaller.Monthly()), larger.TableID)
	return content, provenanceOf(ds), nil
}

func listCategories(ctx context.Context, source DatasetSource, args ListArgs) (string, ai.Provenance, error) {
	ds, err := fetchDataset(ctx, source, args.Period)
	if err != nil {
		return "", ai.Provenance{}, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Spending categories in SSB table %s for %s:\n", ds.TableID, ds.Period)
	for _, r := range ds.Records {
		fmt.Fprintf(&sb, "%s: %s\n", r.CategoryCode, r.Category)
	}
	return strings.TrimRight(sb.String(), "\n"), provenanceOf(ds), nil
}

func totalSpending(ctx context.Context, source DatasetSource, args ListArgs) (string, ai.Provenance, error) {
	ds, err := fetchDataset(ctx, source, args.Period)
	if err != nil {
		return "", ai.Provenance{}, err
	}

	total := ds.Total()
	content := fmt.Sprintf(
		"Total average household spending in %s: %s NOK per year (%s NOK per month), across %d categories. Source: SSB table %s.",
		ds.Period, formatNOK(total), formatNOK(total/12), ds.Len(), ds.TableID)
	return content, provenanceOf(ds), nil
}

func fetchDataset(ctx context.Context, source DatasetSource, period string) (*ssb.Dataset, error) {
	if period == "" {
		period = ssb.DefaultPeriod
	}
	return source.Dataset(ctx, ssb.TableHouseholdBudget, period)
}

// lookupRecord resolves a category name and returns its record. An
// unrecognized name or a category absent from the dataset yields a
// *LookupError listing the known names.
func lookupRecord(ctx context.Context, source DatasetSource, toolName, category, period string) (ssb.SpendingRecord, *ssb.Dataset, error) {
	code, ok := ssb.ResolveCategory(category)
	if !ok {
		return ssb.SpendingRecord{}, nil, &LookupError{Tool: toolName, Key: category, Available: ssb.KnownCategories()}
	}

	ds, err := fetchDataset(ctx, source, period)
	if err != nil {
		return ssb.SpendingRecord{}, nil, err
	}

	record, ok := ds.Record(code)
	if !ok {
		return ssb.SpendingRecord{}, nil, &LookupError{Tool: toolName, Key: category, Available: ssb.KnownCategories()}
	}
	return record, ds, nil
}

func provenanceOf(ds *ssb.Dataset) ai.Provenance {
	return ai.Provenance{TableID: ds.TableID, Period: ds.Period}
}

// formatNOK renders an amount with thousands separators and no decimals.
func formatNOK(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 0, 64)

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
		if len(s) > lead {
			sb.WriteByte(',')
		}
	}
	for i := lead; i < len(s); i += 3 {
		sb.WriteString(s[i : i+3])
		if i+3 < len(s) {
			sb.WriteByte(',')
		}
	}
	return sb.String()
}
