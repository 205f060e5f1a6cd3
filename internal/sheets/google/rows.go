package google

import (
	"strings"

	"expensetracker/internal/analysis"
	"expensetracker/internal/core"
)

// buildRows renders the CSV records plus a formatted Display column.
func buildRows(expenses []core.Expense) [][]any {
	records := analysis.CSVRecords(expenses)
	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		row := make([]any, 0, len(rec)+1)
		for _, v := range rec {
			row = append(row, sheetText(v))
		}
		if i == 0 {
			row = append(row, "Display")
		} else {
			row = append(row, core.FormatCurrency(expenses[i-1].Amount))
		}
		rows = append(rows, row)
	}
	return rows
}

// sheetText keeps values written with USER_ENTERED from being evaluated as
// formulas. A leading apostrophe forces a text cell and is not displayed.
func sheetText(v string) string {
	if v != "" && strings.ContainsRune("=+-@", rune(v[0])) {
		return "'" + v
	}
	return v
}

// sheetRange builds an A1 reference, quoting sheet names that need it.
func sheetRange(sheet, cells string) string {
	if strings.ContainsAny(sheet, " '!") {
		sheet = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet + "!" + cells
}
