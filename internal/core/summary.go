package core

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category `json:"category"`
	Amount   Amount   `json:"amount"`
}

// Summary holds the derived statistics shown on the dashboard. It is never
// persisted.
type Summary struct {
	TotalSpending        Amount              `json:"totalSpending"`
	MonthlySpending      Amount              `json:"monthlySpending"`
	CategoryBreakdown    map[Category]Amount `json:"categoryBreakdown"`
	TopCategory          *CategoryAmount     `json:"topCategory"`
	AverageDailySpending Amount              `json:"averageDailySpending"`
}

// Filters restricts a history listing. Zero values mean "not set".
type Filters struct {
	StartDate  Date     `json:"startDate"`
	EndDate    Date     `json:"endDate"`
	Category   Category `json:"category,omitempty"`
	SearchTerm string   `json:"searchTerm,omitempty"`
}

// HasDateRange reports whether both ends of the range are set. A single
// bound on its own does not restrict anything.
func (f Filters) HasDateRange() bool {
	return !f.StartDate.IsZero() && !f.EndDate.IsZero()
}

// RestrictsCategory reports whether the category filter is active.
func (f Filters) RestrictsCategory() bool {
	return f.Category != "" && f.Category != CategoryAll
}
