// Package sheets defines the outbound export port and its adapters.
package sheets

import (
	"context"

	"expensetracker/internal/core"
)

// Ports for outbound adapters.
type (
	// Exporter writes a rendered export of expenses to some destination and
	// returns a reference to where it landed (a path, a sheet range).
	Exporter interface {
		Export(ctx context.Context, filename string, expenses []core.Expense) (ref string, err error)
	}
)
