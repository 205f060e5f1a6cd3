package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// RollingWindowDays is both the look-back window and the fixed divisor of the
// average daily spending.
const RollingWindowDays = 30

// Summarize computes the dashboard summary relative to the current time.
func Summarize(expenses []core.Expense) core.Summary {
	return SummarizeAt(expenses, time.Now())
}

// SummarizeAt computes the summary as seen at now. The current month and the
// rolling window are evaluated in now's location.
func SummarizeAt(expenses []core.Expense, now time.Time) core.Summary {
	s := core.Summary{
		CategoryBreakdown: make(map[core.Category]core.Amount, len(core.Categories())),
	}
	for _, c := range core.Categories() {
		s.CategoryBreakdown[c] = core.Amount{}
	}

	cutoff := now.AddDate(0, 0, -RollingWindowDays)
	var recent core.Amount

	for _, e := range expenses {
		s.TotalSpending = s.TotalSpending.Plus(e.Amount)
		s.CategoryBreakdown[e.Category] = s.CategoryBreakdown[e.Category].Plus(e.Amount)

		if e.Date.Year() == now.Year() && e.Date.Month() == now.Month() {
			s.MonthlySpending = s.MonthlySpending.Plus(e.Amount)
		}
		if !e.Date.Midnight(now.Location()).Before(cutoff) {
			recent = recent.Plus(e.Amount)
		}
	}

	s.TopCategory = topCategory(s.CategoryBreakdown)
	s.AverageDailySpending = core.NewAmount(recent.Div(decimal.NewFromInt(RollingWindowDays)))
	return s
}

// topCategory picks the largest total, first in enumeration order on ties.
// It returns nil when no category has a positive total.
func topCategory(breakdown map[core.Category]core.Amount) *core.CategoryAmount {
	var best *core.CategoryAmount
	for _, c := range core.Categories() {
		amt := breakdown[c]
		if best == nil || amt.GreaterThan(best.Amount.Decimal) {
			best = &core.CategoryAmount{Category: c, Amount: amt}
		}
	}
	if best == nil || !best.Amount.IsPositive() {
		return nil
	}
	return best
}
