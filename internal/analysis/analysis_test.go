package analysis

import (
	"testing"
	"time"

	"expensetracker/internal/core"
)

func exp(id string, d core.Date, amount float64, c core.Category, desc string) core.Expense {
	return core.Expense{ID: id, Date: d, Amount: core.AmountFromFloat(amount), Category: c, Description: desc}
}

func sampleExpenses() []core.Expense {
	return []core.Expense{
		exp("1", core.NewDate(2024, 1, 15), 50, core.Food, "Lunch"),
		exp("2", core.NewDate(2024, 1, 20), 12.5, core.Transportation, "Bus ticket"),
		exp("3", core.NewDate(2024, 2, 3), 80, core.Shopping, "Shoes for lunch runs"),
		exp("4", core.NewDate(2024, 2, 10), 9.99, core.Entertainment, "Movie"),
		exp("5", core.NewDate(2024, 3, 1), 120, core.Bills, "Electricity"),
		exp("6", core.NewDate(2024, 3, 5), 4, core.Food, "Coffee"),
	}
}

func ids(es []core.Expense) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func sameIDs(t *testing.T, got []core.Expense, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, g)
		}
	}
}

func TestFilterAllIsIdentity(t *testing.T) {
	c := sampleExpenses()
	sameIDs(t, Filter(c, core.Filters{Category: core.CategoryAll}), "1", "2", "3", "4", "5", "6")
	sameIDs(t, Filter(c, core.Filters{}), "1", "2", "3", "4", "5", "6")
	if got := Filter(nil, core.Filters{}); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestFilterCategoryOnly(t *testing.T) {
	c := sampleExpenses()
	for _, cat := range core.Categories() {
		got := Filter(c, core.Filters{Category: cat})
		for _, e := range got {
			if e.Category != cat {
				t.Fatalf("category %s: unexpected %s", cat, e.Category)
			}
		}
		want := 0
		for _, e := range c {
			if e.Category == cat {
				want++
			}
		}
		if len(got) != want {
			t.Fatalf("category %s: expected %d, got %d", cat, want, len(got))
		}
	}
}

func TestFilterDateRange(t *testing.T) {
	c := sampleExpenses()
	cases := []struct {
		name string
		f    core.Filters
		want []string
	}{
		{"inclusive bounds", core.Filters{StartDate: core.NewDate(2024, 1, 20), EndDate: core.NewDate(2024, 2, 10)}, []string{"2", "3", "4"}},
		{"single day", core.Filters{StartDate: core.NewDate(2024, 3, 1), EndDate: core.NewDate(2024, 3, 1)}, []string{"5"}},
		{"start only ignored", core.Filters{StartDate: core.NewDate(2024, 3, 1)}, []string{"1", "2", "3", "4", "5", "6"}},
		{"end only ignored", core.Filters{EndDate: core.NewDate(2024, 1, 1)}, []string{"1", "2", "3", "4", "5", "6"}},
		{"empty range", core.Filters{StartDate: core.NewDate(2025, 1, 1), EndDate: core.NewDate(2025, 2, 1)}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sameIDs(t, Filter(c, tc.f), tc.want...)
		})
	}
}

func TestFilterSearch(t *testing.T) {
	c := sampleExpenses()
	// description match, case-insensitive
	sameIDs(t, Filter(c, core.Filters{SearchTerm: "LUNCH"}), "1", "3")
	// category name match
	sameIDs(t, Filter(c, core.Filters{SearchTerm: "bill"}), "5")
	sameIDs(t, Filter(c, core.Filters{SearchTerm: "nothing-matches"}))
}

func TestFilterCategoryBeforeSearch(t *testing.T) {
	c := sampleExpenses()
	// "lunch" matches 1 (Food) and 3 (Shopping); the category check drops 3.
	sameIDs(t, Filter(c, core.Filters{Category: core.Food, SearchTerm: "lunch"}), "1")
	sameIDs(t, Filter(c, core.Filters{Category: core.Bills, SearchTerm: "lunch"}))
	sameIDs(t, Filter(c, core.Filters{
		StartDate:  core.NewDate(2024, 2, 1),
		EndDate:    core.NewDate(2024, 3, 31),
		Category:   core.CategoryAll,
		SearchTerm: "o",
	}), "3", "4", "6")
}

func TestSummarizeBreakdownSumsToTotal(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	for _, c := range [][]core.Expense{nil, sampleExpenses(), sampleExpenses()[:1]} {
		s := SummarizeAt(c, now)
		if len(s.CategoryBreakdown) != 6 {
			t.Fatalf("expected 6 categories, got %d", len(s.CategoryBreakdown))
		}
		var sum core.Amount
		for _, cat := range core.Categories() {
			v, ok := s.CategoryBreakdown[cat]
			if !ok {
				t.Fatalf("missing category %s", cat)
			}
			if v.IsNegative() {
				t.Fatalf("negative total for %s", cat)
			}
			sum = sum.Plus(v)
		}
		if !sum.Equal(s.TotalSpending.Decimal) {
			t.Fatalf("breakdown sum %s != total %s", sum, s.TotalSpending)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := SummarizeAt(nil, time.Now())
	if s.TopCategory != nil {
		t.Fatalf("expected no top category, got %+v", s.TopCategory)
	}
	if !s.AverageDailySpending.IsZero() || !s.TotalSpending.IsZero() || !s.MonthlySpending.IsZero() {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestSummarizeSingleFood(t *testing.T) {
	c := []core.Expense{exp("1", core.NewDate(2024, 1, 15), 50, core.Food, "Lunch")}
	s := SummarizeAt(c, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if s.TotalSpending.Fixed() != "50.00" {
		t.Fatalf("expected total 50, got %s", s.TotalSpending)
	}
	if s.CategoryBreakdown[core.Food].Fixed() != "50.00" {
		t.Fatalf("expected Food 50, got %s", s.CategoryBreakdown[core.Food])
	}
	for _, cat := range core.Categories()[1:] {
		if !s.CategoryBreakdown[cat].IsZero() {
			t.Fatalf("expected %s to be 0", cat)
		}
	}
	if s.TopCategory == nil || s.TopCategory.Category != core.Food || s.TopCategory.Amount.Fixed() != "50.00" {
		t.Fatalf("unexpected top category %+v", s.TopCategory)
	}
}

func TestSummarizeMonthly(t *testing.T) {
	now := time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)
	c := []core.Expense{
		exp("1", core.NewDate(2024, 5, 2), 20, core.Food, "a"),
		exp("2", core.NewDate(2024, 5, 31), 30, core.Bills, "b"),
		exp("3", core.NewDate(2024, 4, 30), 100, core.Other, "c"),
	}
	s := SummarizeAt(c, now)
	if s.MonthlySpending.Fixed() != "50.00" {
		t.Fatalf("expected monthly 50, got %s", s.MonthlySpending)
	}
	if s.TotalSpending.Fixed() != "150.00" {
		t.Fatalf("expected total 150, got %s", s.TotalSpending)
	}
	// same month of a different year does not count
	s = SummarizeAt([]core.Expense{exp("1", core.NewDate(2023, 5, 2), 20, core.Food, "a")}, now)
	if !s.MonthlySpending.IsZero() {
		t.Fatalf("expected monthly 0, got %s", s.MonthlySpending)
	}
}

func TestSummarizeTopCategoryTie(t *testing.T) {
	c := []core.Expense{
		exp("1", core.NewDate(2024, 1, 1), 40, core.Shopping, "a"),
		exp("2", core.NewDate(2024, 1, 1), 40, core.Transportation, "b"),
		exp("3", core.NewDate(2024, 1, 1), 10, core.Food, "c"),
	}
	s := SummarizeAt(c, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	if s.TopCategory == nil || s.TopCategory.Category != core.Transportation {
		t.Fatalf("expected Transportation to win the tie, got %+v", s.TopCategory)
	}
}

func TestSummarizeRollingAverage(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	c := []core.Expense{
		exp("1", core.NewDate(2024, 3, 31), 30, core.Food, "today"),
		exp("2", core.NewDate(2024, 3, 2), 30, core.Food, "29 days ago"),
		// midnight on Mar 1 is before the cutoff of Mar 1 12:00
		exp("3", core.NewDate(2024, 3, 1), 300, core.Food, "30 days ago"),
		exp("4", core.NewDate(2024, 1, 1), 900, core.Food, "old"),
	}
	s := SummarizeAt(c, now)
	if s.AverageDailySpending.Fixed() != "2.00" {
		t.Fatalf("expected average 2.00, got %s", s.AverageDailySpending)
	}

	// a single expense still divides by 30
	s = SummarizeAt(c[:1], now)
	if s.AverageDailySpending.Fixed() != "1.00" {
		t.Fatalf("expected average 1.00, got %s", s.AverageDailySpending)
	}
}

func TestToCSV(t *testing.T) {
	c := []core.Expense{exp("1", core.NewDate(2024, 1, 15), 12.5, core.Food, "Lunch")}
	want := "\"Date\",\"Category\",\"Description\",\"Amount\"\n\"2024-01-15\",\"Food\",\"Lunch\",\"12.50\""
	if got := ToCSV(c); got != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", got, want)
	}

	// fields are not escaped
	c = []core.Expense{exp("1", core.NewDate(2024, 1, 15), 3, core.Other, `say "hi", ok`)}
	want = "\"Date\",\"Category\",\"Description\",\"Amount\"\n\"2024-01-15\",\"Other\",\"say \"hi\", ok\",\"3.00\""
	if got := ToCSV(c); got != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", got, want)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 1, 15, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	if got := ExportFilename(now); got != "expenses-2024-01-16.csv" {
		t.Fatalf("unexpected filename %s", got)
	}
}

func TestSortByDate(t *testing.T) {
	c := []core.Expense{
		exp("a", core.NewDate(2024, 2, 1), 1, core.Food, "x"),
		exp("b", core.NewDate(2024, 1, 1), 1, core.Food, "x"),
		exp("c", core.NewDate(2024, 2, 1), 1, core.Food, "x"),
		exp("d", core.NewDate(2024, 3, 1), 1, core.Food, "x"),
	}
	sameIDs(t, SortByDate(c, SortDesc), "d", "a", "c", "b")
	sameIDs(t, SortByDate(c, SortAsc), "b", "a", "c", "d")
	// input untouched
	sameIDs(t, c, "a", "b", "c", "d")
}

func TestParseSortOrder(t *testing.T) {
	cases := []struct {
		in   string
		want SortOrder
		ok   bool
	}{
		{"", SortDesc, true},
		{"ASC", SortAsc, true},
		{"desc", SortDesc, true},
		{"sideways", "", false},
	}
	for _, tc := range cases {
		got, err := ParseSortOrder(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: expected %s, got %s (%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}
