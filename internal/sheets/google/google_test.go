package google

import (
	"context"
	"strings"
	"testing"

	"expensetracker/internal/core"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "id"}, nil)
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "id", CredentialsFile: "/nonexistent/sa.json"}, nil)
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExport_Uninitialized(t *testing.T) {
	x := &Exporter{spreadsheetID: "id", sheetName: "Expenses"}
	if _, err := x.Export(context.Background(), "f.csv", nil); err == nil {
		t.Fatalf("expected error for nil service")
	}
}

func TestBuildRows(t *testing.T) {
	rows := buildRows([]core.Expense{{
		Date:        core.NewDate(2024, 1, 15),
		Amount:      core.AmountFromFloat(1234.5),
		Category:    core.Bills,
		Description: "Rent",
	}})
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(rows))
	}
	header := rows[0]
	if len(header) != 5 || header[0] != "Date" || header[4] != "Display" {
		t.Fatalf("unexpected header %v", header)
	}
	row := rows[1]
	want := []any{"2024-01-15", "Bills", "Rent", "1234.50", "$1,234.50"}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("column %d: expected %v, got %v", i, want[i], row[i])
		}
	}
}

func TestBuildRowsEscapesFormulas(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{`=HYPERLINK("http://evil.example","x")`, `'=HYPERLINK("http://evil.example","x")`},
		{"+1+1", "'+1+1"},
		{"-2 refunds", "'-2 refunds"},
		{"@SUM(A1:A2)", "'@SUM(A1:A2)"},
		{"Lunch = pasta", "Lunch = pasta"},
	}
	for _, tt := range tests {
		desc, want := tt.desc, tt.want
		rows := buildRows([]core.Expense{{
			Date:        core.NewDate(2024, 1, 15),
			Amount:      core.AmountFromFloat(5),
			Category:    core.Food,
			Description: desc,
		}})
		if got := rows[1][2]; got != want {
			t.Errorf("description %q: expected %q, got %q", desc, want, got)
		}
		if got := rows[1][3]; got != "5.00" {
			t.Errorf("description %q: amount cell changed to %v", desc, got)
		}
	}
}

func TestSheetRange(t *testing.T) {
	cases := map[string]string{
		"Expenses":   "Expenses!A1",
		"My Sheet":   "'My Sheet'!A1",
		"Bob's data": "'Bob''s data'!A1",
	}
	for sheet, want := range cases {
		if got := sheetRange(sheet, "A1"); got != want {
			t.Fatalf("%q: expected %s, got %s", sheet, want, got)
		}
	}
}
