// Package analysis holds the aggregation and filtering engine. Everything here
// is a pure function over an in-memory slice of expenses.
package analysis

import (
	"strings"

	"expensetracker/internal/core"
)

// Filter returns the expenses that pass f, preserving input order.
//
// Checks run in a fixed order. The date range applies only when both bounds
// are set. A category mismatch excludes the record. When a search term is set
// it decides inclusion of whatever survived the earlier checks.
func Filter(expenses []core.Expense, f core.Filters) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if Matches(e, f) {
			out = append(out, e)
		}
	}
	return out
}

// Matches reports whether a single expense passes f.
func Matches(e core.Expense, f core.Filters) bool {
	if f.HasDateRange() {
		if e.Date.Before(f.StartDate.Time) || e.Date.After(f.EndDate.Time) {
			return false
		}
	}

	if f.RestrictsCategory() && e.Category != f.Category {
		return false
	}

	if term := strings.ToLower(f.SearchTerm); term != "" {
		return strings.Contains(strings.ToLower(e.Description), term) ||
			strings.Contains(strings.ToLower(string(e.Category)), term)
	}

	return true
}
