package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"expensetracker/internal/config"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("EXPENSE_CLI_TEST_VAR=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("EXPENSE_CLI_TEST_VAR", "")
	os.Unsetenv("EXPENSE_CLI_TEST_VAR")

	if err := LoadEnvFile(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("EXPENSE_CLI_TEST_VAR"); got != "from-file" {
		t.Fatalf("EXPENSE_CLI_TEST_VAR = %q, want from-file", got)
	}
}

func TestOpenRecordStore(t *testing.T) {
	tests := []struct {
		name    string
		backend string
	}{
		{"memory", config.BackendMemory},
		{"sqlite", config.BackendSQLite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				DataBackend:  tt.backend,
				SQLiteDBPath: filepath.Join(t.TempDir(), "expenses.db"),
				StorageKey:   "cli-test",
			}
			ctx := context.Background()
			store, cleanup, err := OpenRecordStore(ctx, cfg, log.Discard())
			if err != nil {
				t.Fatalf("OpenRecordStore() error = %v", err)
			}
			defer cleanup()

			if store.Key() != "cli-test" {
				t.Fatalf("Key() = %q, want cli-test", store.Key())
			}
			e := core.Expense{ID: "1", Date: core.NewDate(2024, 1, 1), Amount: core.AmountFromFloat(1), Category: core.Food, Description: "x"}
			if got := store.Add(ctx, e); len(got) != 1 {
				t.Fatalf("Add() returned %d expenses", len(got))
			}
		})
	}
}

func TestOpenRecordStoreInvalidBackend(t *testing.T) {
	cfg := &config.Config{DataBackend: "postgres"}
	if _, _, err := OpenRecordStore(context.Background(), cfg, log.Discard()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestOpenPublisherDisabled(t *testing.T) {
	p, closeFn, err := OpenPublisher(context.Background(), &config.Config{}, log.Discard())
	if err != nil {
		t.Fatalf("OpenPublisher() error = %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil publisher when AMQP_URL is empty, got %T", p)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpenSheetsExporterRequiresSpreadsheet(t *testing.T) {
	if _, err := OpenSheetsExporter(context.Background(), &config.Config{}, log.Discard()); err == nil {
		t.Fatal("expected error without spreadsheet id")
	}
}
