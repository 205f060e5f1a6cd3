package analysis

import (
	"fmt"
	"slices"
	"strings"

	"expensetracker/internal/core"
)

// SortOrder is the direction of the history list.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// DefaultSortOrder lists newest expenses first.
const DefaultSortOrder = SortDesc

// ParseSortOrder accepts asc or desc, case-insensitively. Empty input yields
// the default.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultSortOrder, nil
	case string(SortAsc):
		return SortAsc, nil
	case string(SortDesc):
		return SortDesc, nil
	default:
		return "", fmt.Errorf("invalid sort order %q", s)
	}
}

// SortByDate returns a sorted copy. Expenses on the same date keep their
// relative order.
func SortByDate(expenses []core.Expense, order SortOrder) []core.Expense {
	out := slices.Clone(expenses)
	slices.SortStableFunc(out, func(a, b core.Expense) int {
		c := a.Date.Compare(b.Date.Time)
		if order == SortDesc {
			return -c
		}
		return c
	})
	return out
}
