package ssb

import (
	"sort"
	"strings"
)

// MainCategoryCodes are the twelve COICOP main groups published in the
// household budget survey.
var MainCategoryCodes = []string{
	"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12",
}

// categoryAliases maps everyday English terms to COICOP main group codes,
// so questions can say "housing" rather than "04".
var categoryAliases = map[string]string{
	"food":           "01", // Food and non-alcoholic beverages
	"groceries":      "01",
	"alcohol":        "02", // Alcoholic beverages and tobacco
	"tobacco":        "02",
	"clothing":       "03", // Clothing and footwear
	"clothes":        "03",
	"footwear":       "03",
	"housing":        "04", // Housing, water, electricity, gas and other fuels
	"home":           "04",
	"rent":           "04",
	"furnishings":    "05", // Furnishings, household equipment
	"furniture":      "05",
	"health":         "06",
	"medical":        "06",
	"transport":      "07",
	"transportation": "07",
	"communication":  "08",
	"phone":          "08",
	"entertainment":  "09", // Recreation and culture
	"recreation":     "09",
	"culture":        "09",
	"education":      "10",
	"school":         "10",
	"restaurants":    "11", // Restaurants and hotels
	"hotels":         "11",
	"dining":         "11",
	"other":          "12", // Miscellaneous goods and services
	"miscellaneous":  "12",
}

// ResolveCategory maps a category name (alias or bare COICOP code) to its
// code. Matching is case-insensitive.
func ResolveCategory(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if code, ok := categoryAliases[key]; ok {
		return code, true
	}
	for _, code := range MainCategoryCodes {
		if key == code {
			return code, true
		}
	}
	return "", false
}

// KnownCategories returns the recognized category aliases, sorted. The
// tools include this list in lookup-error messages so the model can correct
// an unknown category on the next step.
func KnownCategories() []string {
	out := make([]string, 0, len(categoryAliases))
	for alias := range categoryAliases {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}
