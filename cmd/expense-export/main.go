// Command expense-export writes the filtered expense history to a CSV file
// and, optionally, to a Google Sheets tab.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/cli"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/sheets"
	"expensetracker/internal/sheets/csvfile"
)

type options struct {
	outDir   string
	start    string
	end      string
	category string
	search   string
	toSheets bool
}

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	var opts options
	flag.StringVar(&opts.outDir, "out", cfg.ExportDir, "directory the CSV file is written to")
	flag.StringVar(&opts.start, "start", "", "first date to include (YYYY-MM-DD)")
	flag.StringVar(&opts.end, "end", "", "last date to include (YYYY-MM-DD)")
	flag.StringVar(&opts.category, "category", "", "only include this category")
	flag.StringVar(&opts.search, "search", "", "case-insensitive match on description or category")
	flag.BoolVar(&opts.toSheets, "sheets", false, "also push the rows to Google Sheets")
	flag.Parse()

	filters, err := opts.filters()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := cli.OpenRecordStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open record store", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer closeStore()

	svc := services.NewExpenseService(ctx, store, services.WithLogger(logger))
	export, err := svc.Export(filters)
	if errors.Is(err, services.ErrNothingToExport) {
		fmt.Fprintln(os.Stderr, "No expenses to export")
		os.Exit(1)
	}
	if err != nil {
		logger.Error("Export failed", log.FieldError, err)
		os.Exit(1)
	}

	exporters := map[string]sheets.Exporter{"csv": csvfile.New(opts.outDir)}
	if opts.toSheets {
		gx, err := cli.OpenSheetsExporter(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", log.FieldError, err)
			os.Exit(1)
		}
		exporters["sheets"] = gx
	}

	if err := run(ctx, logger, exporters, export); err != nil {
		logger.Error("Export failed", log.FieldError, err)
		os.Exit(1)
	}
}

// run pushes the export to every target concurrently.
func run(ctx context.Context, logger *log.Logger, exporters map[string]sheets.Exporter, export services.Export) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	logger = logger.WithComponent(log.ComponentExport)
	g, gctx := errgroup.WithContext(ctx)
	for name, x := range exporters {
		g.Go(func() error {
			ref, err := x.Export(gctx, export.Filename, export.Expenses)
			if err != nil {
				return fmt.Errorf("%s export: %w", name, err)
			}
			logger.InfoContext(gctx, "Export written",
				log.FieldBackend, name,
				log.FieldTarget, ref,
				log.FieldCount, len(export.Expenses))
			return nil
		})
	}
	return g.Wait()
}

func (o options) filters() (core.Filters, error) {
	var f core.Filters
	if o.start != "" {
		d, err := core.ParseDate(o.start)
		if err != nil {
			return f, fmt.Errorf("invalid -start: %w", err)
		}
		f.StartDate = d
	}
	if o.end != "" {
		d, err := core.ParseDate(o.end)
		if err != nil {
			return f, fmt.Errorf("invalid -end: %w", err)
		}
		f.EndDate = d
	}
	if o.category != "" {
		c, err := core.ParseCategory(o.category)
		if err != nil {
			return f, fmt.Errorf("invalid -category: %w", err)
		}
		f.Category = c
	}
	f.SearchTerm = o.search
	return f, nil
}
