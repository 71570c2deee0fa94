// Package analytics derives the dashboard views from a validated transaction table.
// Every function is pure and does not validate its input; a nil or empty table
// yields zero KPIs and empty series.
package analytics

import (
	"slices"
	"time"

	"github.com/SscSPs/sales_dashboard/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateKPIs sums TotalAmount over every row and counts distinct order IDs.
// An order with three line items adds one order and three amounts.
func CalculateKPIs(table *domain.TransactionTable) domain.KPIs {
	total := decimal.Zero
	orders := make(map[string]struct{})
	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		total = total.Add(row.TotalAmount)
		orders[row.OrderID] = struct{}{}
	}
	return domain.KPIs{
		TotalSales:  total,
		TotalOrders: len(orders),
	}
}

// DailySales sums TotalAmount per calendar date in ascending date order.
// Dates without transactions are not filled in.
func DailySales(table *domain.TransactionTable) []domain.DailySales {
	sums := make(map[time.Time]decimal.Decimal)
	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		day := truncateToDay(row.Date)
		sums[day] = sums[day].Add(row.TotalAmount)
	}

	series := make([]domain.DailySales, 0, len(sums))
	for day, sum := range sums {
		series = append(series, domain.DailySales{Date: day, Sales: sum})
	}
	slices.SortFunc(series, func(a, b domain.DailySales) int {
		return a.Date.Compare(b.Date)
	})
	return series
}

// SalesByCategory sums TotalAmount per category, largest first.
// Equal sums keep the order in which the categories first appear in the table.
func SalesByCategory(table *domain.TransactionTable) []domain.LabelAmount {
	return groupDescending(table, func(t domain.Transaction) string { return string(t.Category) })
}

// SalesByRegion sums TotalAmount per region, largest first, with the same tie rule
// as SalesByCategory.
func SalesByRegion(table *domain.TransactionTable) []domain.LabelAmount {
	return groupDescending(table, func(t domain.Transaction) string { return string(t.Region) })
}

// Summarize computes every view from one table.
func Summarize(table *domain.TransactionTable, now time.Time) domain.DashboardSummary {
	var sourceID string
	if table != nil {
		sourceID = table.SourceID
	}
	return domain.DashboardSummary{
		SourceID:    sourceID,
		RowCount:    table.Len(),
		KPIs:        CalculateKPIs(table),
		DailySales:  DailySales(table),
		ByCategory:  SalesByCategory(table),
		ByRegion:    SalesByRegion(table),
		GeneratedAt: now,
	}
}

func groupDescending(table *domain.TransactionTable, key func(domain.Transaction) string) []domain.LabelAmount {
	position := make(map[string]int)
	groups := make([]domain.LabelAmount, 0)
	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		k := key(row)
		idx, ok := position[k]
		if !ok {
			idx = len(groups)
			position[k] = idx
			groups = append(groups, domain.LabelAmount{Label: k, Sales: decimal.Zero})
		}
		groups[idx].Sales = groups[idx].Sales.Add(row.TotalAmount)
	}

	slices.SortStableFunc(groups, func(a, b domain.LabelAmount) int {
		return b.Sales.Cmp(a.Sales)
	})
	return groups
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
