package analysis

import (
	"strings"
	"time"

	"expensetracker/internal/core"
)

// CSVHeader lists the export columns in order.
var CSVHeader = []string{"Date", "Category", "Description", "Amount"}

// CSVRecords converts expenses to export rows, header first. Amounts are fixed
// to two decimals.
func CSVRecords(expenses []core.Expense) [][]string {
	rows := make([][]string, 0, len(expenses)+1)
	rows = append(rows, append([]string(nil), CSVHeader...))
	for _, e := range expenses {
		rows = append(rows, []string{
			e.Date.String(),
			string(e.Category),
			e.Description,
			e.Amount.Fixed(),
		})
	}
	return rows
}

// ToCSV renders the export text. Every field is wrapped in double quotes
// verbatim and lines are joined with "\n" with no trailing newline.
func ToCSV(expenses []core.Expense) string {
	var b strings.Builder
	for i, row := range CSVRecords(expenses) {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, field := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(field)
			b.WriteByte('"')
		}
	}
	return b.String()
}

// ExportFilename returns expenses-<YYYY-MM-DD>.csv for the UTC date of now.
func ExportFilename(now time.Time) string {
	return "expenses-" + now.UTC().Format(core.DateLayout) + ".csv"
}
