// Package csvfile exports expenses as a CSV file on the local filesystem.
package csvfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"expensetracker/internal/analysis"
	"expensetracker/internal/core"
	ports "expensetracker/internal/sheets"
)

var _ ports.Exporter = (*Exporter)(nil)

// Exporter writes files into Dir.
type Exporter struct {
	Dir string
}

func New(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

// Export writes the CSV text to Dir/filename and returns the path. The file
// is written to a temporary name first and renamed into place.
func (x *Exporter) Export(ctx context.Context, filename string, expenses []core.Expense) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if filename == "" || filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid export filename %q", filename)
	}
	if err := os.MkdirAll(x.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(x.Dir, filename)
	tmp, err := os.CreateTemp(x.Dir, "."+filename+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(analysis.ToCSV(expenses)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename into %s: %w", path, err)
	}
	return path, nil
}
