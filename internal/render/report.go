package render

import (
	"fmt"
	"io"

	"github.com/SscSPs/sales_dashboard/internal/core/domain"
	"github.com/olekukonko/tablewriter"
)

// ReportOptions controls WriteReport.
type ReportOptions struct {
	// Markdown renders GitHub style tables instead of boxed ones.
	Markdown bool
	// IncludeDaily appends the per-day table, which can be long.
	IncludeDaily bool
}

// WriteReport prints the dashboard as text tables: KPI cards first, then the breakdowns.
func WriteReport(w io.Writer, summary domain.DashboardSummary, opts ReportOptions) error {
	sections := []struct {
		title  string
		header []string
		rows   [][]string
	}{
		{
			title:  "ShopSmart Sales Dashboard",
			header: []string{"Total Sales", "Total Orders"},
			rows:   [][]string{{Currency(summary.KPIs.TotalSales), Count(summary.KPIs.TotalOrders)}},
		},
		{
			title:  TitleCategories,
			header: []string{"Product Category", "Total Sales"},
			rows:   labelRows(summary.ByCategory),
		},
		{
			title:  TitleRegions,
			header: []string{"Region", "Total Sales"},
			rows:   labelRows(summary.ByRegion),
		},
	}
	if opts.IncludeDaily {
		rows := make([][]string, len(summary.DailySales))
		for i, d := range summary.DailySales {
			rows[i] = []string{d.Date.Format(domain.DateLayout), Currency(d.Sales)}
		}
		sections = append(sections, struct {
			title  string
			header []string
			rows   [][]string
		}{TitleDailySales, []string{"Date", "Sales"}, rows})
	}

	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		heading := s.title
		if opts.Markdown {
			heading = "## " + heading
		}
		if _, err := fmt.Fprintf(w, "%s\n\n", heading); err != nil {
			return err
		}
		writeTable(w, s.header, s.rows, opts.Markdown)
	}
	return nil
}

func labelRows(items []domain.LabelAmount) [][]string {
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{item.Label, Currency(item.Sales)}
	}
	return rows
}

func writeTable(w io.Writer, header []string, rows [][]string, markdown bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	if markdown {
		table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
		table.SetCenterSeparator("|")
	}
	table.AppendBulk(rows)
	table.Render()
}
