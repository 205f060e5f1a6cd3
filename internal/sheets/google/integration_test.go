//go:build integration

package google

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"expensetracker/internal/core"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_Export(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	credsJSON := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
	credsFile := os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")
	if credsJSON == "" && credsFile == "" {
		t.Skip("service account credentials not configured, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	x, err := New(ctx, Config{
		SpreadsheetID:   spreadsheetID,
		SheetName:       "IntegrationTest",
		CredentialsJSON: credsJSON,
		CredentialsFile: credsFile,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ref, err := x.Export(ctx, "expenses-test.csv", []core.Expense{{
		ID:          "it-1",
		Date:        core.DateOf(time.Now()),
		Amount:      core.AmountFromFloat(1.23),
		Category:    core.Other,
		Description: "integration test",
	}})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasSuffix(ref, "A1:E2") {
		t.Fatalf("unexpected ref %s", ref)
	}
}
