package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPIs holds the headline dashboard metrics.
type KPIs struct {
	TotalSales  decimal.Decimal `json:"totalSales"`  // Sum of TotalAmount over all rows
	TotalOrders int             `json:"totalOrders"` // Distinct OrderID count, not row count
}

// DailySales is the summed sales of one calendar date.
type DailySales struct {
	Date  time.Time       `json:"date"`
	Sales decimal.Decimal `json:"sales"`
}

// LabelAmount is the summed sales of one group (category or region).
type LabelAmount struct {
	Label string          `json:"label"`
	Sales decimal.Decimal `json:"sales"`
}

// DashboardSummary bundles every view the dashboard renders from one table.
type DashboardSummary struct {
	SourceID    string        `json:"sourceID"`
	RowCount    int           `json:"rowCount"`
	KPIs        KPIs          `json:"kpis"`
	DailySales  []DailySales  `json:"dailySales"`
	ByCategory  []LabelAmount `json:"byCategory"`
	ByRegion    []LabelAmount `json:"byRegion"`
	GeneratedAt time.Time     `json:"generatedAt"`
}
