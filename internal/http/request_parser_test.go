package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"expensetracker/internal/analysis"
	"expensetracker/internal/core"
)

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		want    core.Filters
		wantErr bool
	}{
		{
			name:  "empty query",
			query: url.Values{},
			want:  core.Filters{},
		},
		{
			name: "all values provided",
			query: url.Values{
				"startDate": {"2024-01-01"},
				"endDate":   {"2024-01-31"},
				"category":  {"food"},
				"search":    {"  lunch "},
			},
			want: core.Filters{
				StartDate:  core.NewDate(2024, 1, 1),
				EndDate:    core.NewDate(2024, 1, 31),
				Category:   core.Food,
				SearchTerm: "lunch",
			},
		},
		{
			name:  "all sentinel",
			query: url.Values{"category": {"All"}},
			want:  core.Filters{Category: core.CategoryAll},
		},
		{
			name:    "bad start date",
			query:   url.Values{"startDate": {"01/01/2024"}},
			wantErr: true,
		},
		{
			name:    "bad end date",
			query:   url.Values{"endDate": {"2024-02-30"}},
			wantErr: true,
		},
		{
			name:    "unknown category",
			query:   url.Values{"category": {"Travel"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilters(tt.query)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFilters() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFilters() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseSortOrderParam(t *testing.T) {
	order, err := ParseSortOrder(url.Values{})
	if err != nil || order != analysis.SortDesc {
		t.Fatalf("default order = %q (err=%v), want desc", order, err)
	}
	order, err = ParseSortOrder(url.Values{"sort": {"asc"}})
	if err != nil || order != analysis.SortAsc {
		t.Fatalf("order = %q (err=%v), want asc", order, err)
	}
	if _, err := ParseSortOrder(url.Values{"sort": {"sideways"}}); err == nil {
		t.Fatal("expected error for unknown sort order")
	}
}

func TestRequestBodyParser_JSON(t *testing.T) {
	body := `{"date": "2024-01-15", "description": "Lunch", "amount": 42.5, "category": "Food"}`
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	parser := NewRequestBodyParser(httptest.NewRecorder(), req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	in := parser.ExpenseInput()
	if in.Date != "2024-01-15" {
		t.Errorf("Date = %q, want '2024-01-15'", in.Date)
	}
	if in.Amount != "42.5" {
		t.Errorf("Amount = %q, want '42.5'", in.Amount)
	}
	if in.Category != "Food" || in.Description != "Lunch" {
		t.Errorf("unexpected input %+v", in)
	}
}

func TestRequestBodyParser_LargeJSONNumber(t *testing.T) {
	body := `{"amount": 1234567.89}`
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(body))

	parser := NewRequestBodyParser(httptest.NewRecorder(), req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if amount := parser.Get("amount"); amount != "1234567.89" {
		t.Errorf("Get('amount') = %q, want '1234567.89'", amount)
	}
}

func TestRequestBodyParser_FormData(t *testing.T) {
	body := "date=2024-01-15&description=Bus+ticket&amount=2.50&category=Transportation"
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	parser := NewRequestBodyParser(httptest.NewRecorder(), req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if desc := parser.Get("description"); desc != "Bus ticket" {
		t.Errorf("Get('description') = %q, want 'Bus ticket'", desc)
	}
	if amount := parser.Get("amount"); amount != "2.50" {
		t.Errorf("Get('amount') = %q, want '2.50'", amount)
	}
}

func TestRequestBodyParser_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(""))

	parser := NewRequestBodyParser(httptest.NewRecorder(), req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if val := parser.Get("nonexistent"); val != "" {
		t.Errorf("Get('nonexistent') = %q, want empty string", val)
	}
}

func TestRequestBodyParser_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(`{"date": `))
	req.Header.Set("Content-Type", "application/json")

	parser := NewRequestBodyParser(httptest.NewRecorder(), req)
	if err := parser.Parse(); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	// The error is sticky.
	if err := parser.Parse(); err == nil {
		t.Fatal("expected repeated Parse() to return the same error")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"a\x00b\x07c", "abc"},
		{"tab\tkept", "tab\tkept"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
