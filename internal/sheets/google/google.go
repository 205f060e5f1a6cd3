// Package google exports expenses to a Google Sheets tab.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	ports "expensetracker/internal/sheets"
)

var _ ports.Exporter = (*Exporter)(nil)

// Config selects the target spreadsheet and the credentials used to reach
// it. A service account (CredentialsJSON, then CredentialsFile) takes
// precedence over OAuth user credentials.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string

	OAuthClientJSON string
	OAuthClientFile string
	OAuthTokenFile  string
}

func (c Config) hasServiceAccount() bool {
	return strings.TrimSpace(c.CredentialsJSON) != "" || strings.TrimSpace(c.CredentialsFile) != ""
}

func (c Config) hasOAuthClient() bool {
	return strings.TrimSpace(c.OAuthClientJSON) != "" || strings.TrimSpace(c.OAuthClientFile) != ""
}

// Exporter replaces the contents of one sheet tab with the exported rows.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// New creates a Sheets exporter authenticated with a service account or,
// failing that, a saved OAuth user token.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Expenses"
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	var opts []goption.ClientOption
	if !cfg.hasServiceAccount() && cfg.hasOAuthClient() {
		client, err := oauthHTTPClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, goption.WithHTTPClient(client))
	} else {
		credentials, err := loadCredentials(cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			goption.WithCredentialsJSON(credentials),
			goption.WithScopes(gsheet.SpreadsheetsScope))
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	logger.InfoContext(ctx, "Google Sheets exporter ready", log.FieldTarget, sheetName)
	return &Exporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

func loadCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE, or an OAuth client)")
	}
}

// Export clears columns A:E of the sheet and writes the header plus one row
// per expense. The filename is recorded in the log only.
func (x *Exporter) Export(ctx context.Context, filename string, expenses []core.Expense) (string, error) {
	if x.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	clearRange := sheetRange(x.sheetName, "A:E")
	_, err := x.svc.Spreadsheets.Values.Clear(x.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("clear %s: %w", clearRange, err)
	}

	rows := buildRows(expenses)
	writeRange := sheetRange(x.sheetName, "A1")
	_, err = x.svc.Spreadsheets.Values.Update(x.spreadsheetID, writeRange, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", writeRange, err)
	}

	ref := sheetRange(x.sheetName, fmt.Sprintf("A1:E%d", len(rows)))
	x.logger.InfoContext(ctx, "Exported expenses to sheet",
		log.FieldFilename, filename, log.FieldTarget, ref, log.FieldCount, len(expenses))
	return ref, nil
}
