package analytics_test

import (
	"testing"
	"time"

	"github.com/SscSPs/sales_dashboard/internal/core/domain"
	"github.com/SscSPs/sales_dashboard/internal/utils/analytics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func txn(date, orderID string, category domain.Category, region domain.Region, total string) domain.Transaction {
	return domain.Transaction{
		Date:        day(date),
		OrderID:     orderID,
		Product:     "Item",
		Category:    category,
		Region:      region,
		Quantity:    1,
		UnitPrice:   dec(total),
		TotalAmount: dec(total),
	}
}

func table(rows ...domain.Transaction) *domain.TransactionTable {
	return domain.NewTransactionTable("test.csv", "fp", time.Time{}, rows)
}

// sampleTable holds the three rows of the documented example.
func sampleTable() *domain.TransactionTable {
	return table(
		domain.Transaction{
			Date: day("2024-01-15"), OrderID: "ORD-001234", Product: "Wireless Headphones",
			Category: domain.Electronics, Region: domain.North,
			Quantity: 2, UnitPrice: dec("49.99"), TotalAmount: dec("99.98"),
		},
		domain.Transaction{
			Date: day("2024-01-15"), OrderID: "ORD-001235", Product: "Phone Case",
			Category: domain.Accessories, Region: domain.South,
			Quantity: 1, UnitPrice: dec("15.99"), TotalAmount: dec("15.99"),
		},
		domain.Transaction{
			Date: day("2024-01-16"), OrderID: "ORD-001236", Product: "Video Doorbell",
			Category: domain.SmartHome, Region: domain.East,
			Quantity: 1, UnitPrice: dec("89.99"), TotalAmount: dec("89.99"),
		},
	)
}

func labels(items []domain.LabelAmount) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func sum(items []domain.LabelAmount) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Sales)
	}
	return total
}

func TestSampleDashboard(t *testing.T) {
	tbl := sampleTable()

	kpis := analytics.CalculateKPIs(tbl)
	assert.True(t, dec("205.96").Equal(kpis.TotalSales), "total sales = %s", kpis.TotalSales)
	assert.Equal(t, 3, kpis.TotalOrders)

	byCategory := analytics.SalesByCategory(tbl)
	require.Len(t, byCategory, 3)
	assert.Equal(t, []string{"Electronics", "Smart Home", "Accessories"}, labels(byCategory))
	assert.True(t, dec("99.98").Equal(byCategory[0].Sales))
	assert.True(t, dec("89.99").Equal(byCategory[1].Sales))
	assert.True(t, dec("15.99").Equal(byCategory[2].Sales))

	byRegion := analytics.SalesByRegion(tbl)
	require.Len(t, byRegion, 3)
	assert.Equal(t, []string{"North", "East", "South"}, labels(byRegion))
	assert.True(t, dec("99.98").Equal(byRegion[0].Sales))
	assert.True(t, dec("89.99").Equal(byRegion[1].Sales))
	assert.True(t, dec("15.99").Equal(byRegion[2].Sales))

	daily := analytics.DailySales(tbl)
	require.Len(t, daily, 2)
	assert.Equal(t, day("2024-01-15"), daily[0].Date)
	assert.True(t, dec("115.97").Equal(daily[0].Sales))
	assert.Equal(t, day("2024-01-16"), daily[1].Date)
	assert.True(t, dec("89.99").Equal(daily[1].Sales))
}

func TestCalculateKPIs_CountsDistinctOrders(t *testing.T) {
	tbl := table(
		txn("2024-02-01", "ORD-1", domain.Audio, domain.West, "10.00"),
		txn("2024-02-01", "ORD-1", domain.Audio, domain.West, "20.00"),
		txn("2024-02-01", "ORD-1", domain.Wearables, domain.West, "30.00"),
		txn("2024-02-02", "ORD-2", domain.Audio, domain.North, "5.50"),
	)

	kpis := analytics.CalculateKPIs(tbl)

	assert.Equal(t, 2, kpis.TotalOrders)
	assert.Less(t, kpis.TotalOrders, tbl.Len())
	assert.True(t, dec("65.50").Equal(kpis.TotalSales))
}

func TestCalculateKPIs_OneLinePerOrderEqualsRowCount(t *testing.T) {
	tbl := sampleTable()
	assert.Equal(t, tbl.Len(), analytics.CalculateKPIs(tbl).TotalOrders)
}

func TestEmptyTable(t *testing.T) {
	for name, tbl := range map[string]*domain.TransactionTable{
		"empty": table(),
		"nil":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			kpis := analytics.CalculateKPIs(tbl)
			assert.True(t, kpis.TotalSales.IsZero())
			assert.Equal(t, 0, kpis.TotalOrders)

			daily := analytics.DailySales(tbl)
			assert.NotNil(t, daily)
			assert.Empty(t, daily)

			byCategory := analytics.SalesByCategory(tbl)
			assert.NotNil(t, byCategory)
			assert.Empty(t, byCategory)

			byRegion := analytics.SalesByRegion(tbl)
			assert.NotNil(t, byRegion)
			assert.Empty(t, byRegion)
		})
	}
}

func TestDailySales_AscendingWithoutGaps(t *testing.T) {
	tbl := table(
		txn("2024-03-05", "A", domain.Audio, domain.North, "1.00"),
		txn("2024-03-01", "B", domain.Audio, domain.North, "2.00"),
		txn("2024-03-05", "C", domain.Audio, domain.North, "3.00"),
		txn("2024-02-28", "D", domain.Audio, domain.North, "4.00"),
	)

	daily := analytics.DailySales(tbl)

	require.Len(t, daily, 3, "missing dates must not be synthesized")
	for i := 1; i < len(daily); i++ {
		assert.True(t, daily[i-1].Date.Before(daily[i].Date))
	}
	assert.Equal(t, day("2024-02-28"), daily[0].Date)
	assert.True(t, dec("4.00").Equal(daily[2].Sales))
}

func TestGroupedViews_TiesKeepFirstAppearance(t *testing.T) {
	tbl := table(
		txn("2024-01-01", "A", domain.Wearables, domain.West, "10.00"),
		txn("2024-01-01", "B", domain.Audio, domain.South, "10.00"),
		txn("2024-01-01", "C", domain.Electronics, domain.North, "25.00"),
		txn("2024-01-01", "D", domain.Accessories, domain.East, "10.00"),
	)

	assert.Equal(t, []string{"Electronics", "Wearables", "Audio", "Accessories"}, labels(analytics.SalesByCategory(tbl)))
	assert.Equal(t, []string{"North", "West", "South", "East"}, labels(analytics.SalesByRegion(tbl)))
}

func TestGroupedViews_PartitionTotalSales(t *testing.T) {
	tbl := table(
		txn("2024-01-01", "A", domain.Wearables, domain.West, "10.10"),
		txn("2024-01-02", "A", domain.Audio, domain.South, "0.20"),
		txn("2024-01-03", "B", domain.Electronics, domain.North, "25.00"),
		txn("2024-01-03", "C", domain.SmartHome, domain.East, "7.77"),
		txn("2024-01-04", "D", domain.Audio, domain.West, "1.03"),
	)

	total := analytics.CalculateKPIs(tbl).TotalSales
	byCategory := analytics.SalesByCategory(tbl)
	byRegion := analytics.SalesByRegion(tbl)

	assert.True(t, total.Equal(sum(byCategory)))
	assert.True(t, total.Equal(sum(byRegion)))

	for _, items := range [][]domain.LabelAmount{byCategory, byRegion} {
		for i := 1; i < len(items); i++ {
			assert.False(t, items[i].Sales.GreaterThan(items[i-1].Sales), "not descending at %d", i)
		}
	}
}

func TestAggregations_Idempotent(t *testing.T) {
	tbl := sampleTable()

	assert.Equal(t, analytics.CalculateKPIs(tbl), analytics.CalculateKPIs(tbl))
	assert.Equal(t, analytics.DailySales(tbl), analytics.DailySales(tbl))
	assert.Equal(t, analytics.SalesByCategory(tbl), analytics.SalesByCategory(tbl))
	assert.Equal(t, analytics.SalesByRegion(tbl), analytics.SalesByRegion(tbl))
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	summary := analytics.Summarize(sampleTable(), now)

	assert.Equal(t, "test.csv", summary.SourceID)
	assert.Equal(t, 3, summary.RowCount)
	assert.Equal(t, now, summary.GeneratedAt)
	assert.Equal(t, 3, summary.KPIs.TotalOrders)
	assert.Len(t, summary.DailySales, 2)
	assert.Len(t, summary.ByCategory, 3)
	assert.Len(t, summary.ByRegion, 3)
}
