// Command salesreport prints the sales dashboard as text tables and can write
// the dashboard charts as PNG files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SscSPs/sales_dashboard/internal/adapters/filesystem"
	"github.com/SscSPs/sales_dashboard/internal/apperrors"
	"github.com/SscSPs/sales_dashboard/internal/core/domain"
	"github.com/SscSPs/sales_dashboard/internal/core/services"
	"github.com/SscSPs/sales_dashboard/internal/middleware"
	"github.com/SscSPs/sales_dashboard/internal/render"
)

// Command line flags
var (
	dataPath  = flag.String("data", "data/sales-data.csv", "Path to the sales CSV file")
	chartsDir = flag.String("charts", "", "Directory to write PNG charts to (skipped when empty)")
	markdown  = flag.Bool("markdown", false, "Render tables as Markdown")
	daily     = flag.Bool("daily", false, "Include the per-day sales table")
	strict    = flag.Bool("strict", false, "Also reject non-positive unit prices and totals that do not match quantity times unit price")
	verbose   = flag.Bool("v", false, "Log loader activity to stderr")
)

func main() {
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := middleware.WithLogger(context.Background(), logger)

	if err := run(ctx, os.Stdout); err != nil {
		var de *apperrors.DataError
		if errors.As(err, &de) {
			fmt.Fprintf(os.Stderr, "Data error (%s): %s\n", de.Kind, de.Message)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer) error {
	var opts []services.LoaderServiceOption
	if *strict {
		opts = append(opts, services.WithStrictIntegrity())
	}
	loader := services.NewLoaderService(filesystem.NewCSVSource(filesystem.FingerprintModTime), opts...)
	dashboard := services.NewDashboardService(loader)

	summary, err := dashboard.Summary(ctx, *dataPath)
	if err != nil {
		return err
	}

	if err := render.WriteReport(out, *summary, render.ReportOptions{Markdown: *markdown, IncludeDaily: *daily}); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if *chartsDir != "" {
		return writeCharts(out, *chartsDir, summary)
	}
	return nil
}

// writeCharts writes one PNG per dashboard chart into dir.
func writeCharts(out io.Writer, dir string, summary *domain.DashboardSummary) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create charts directory: %w", err)
	}

	charts := []struct {
		file string
		draw func(io.Writer) error
	}{
		{"daily_sales.png", func(w io.Writer) error { return render.DailySalesChart(w, summary.DailySales) }},
		{"sales_by_category.png", func(w io.Writer) error {
			return render.BreakdownChart(w, render.TitleCategories, summary.ByCategory, render.CategoryColor)
		}},
		{"sales_by_region.png", func(w io.Writer) error {
			return render.BreakdownChart(w, render.TitleRegions, summary.ByRegion, render.RegionColor)
		}},
	}

	for _, ch := range charts {
		path := filepath.Join(dir, ch.file)
		if err := writeChart(path, ch.draw); err != nil {
			if errors.Is(err, render.ErrEmptySeries) {
				fmt.Fprintf(out, "Skipped %s: no data\n", path)
				continue
			}
			return err
		}
		fmt.Fprintf(out, "Chart saved to: %s\n", path)
	}
	return nil
}

func writeChart(path string, draw func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return draw(f)
}
