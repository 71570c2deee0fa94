package dto

import (
	"time"

	"github.com/SscSPs/sales_dashboard/internal/core/domain"
	"github.com/SscSPs/sales_dashboard/internal/render"
	"github.com/shopspring/decimal"
)

// KPIResponse represents the KPI cards
type KPIResponse struct {
	TotalSales         decimal.Decimal `json:"totalSales"`
	TotalOrders        int             `json:"totalOrders"`
	TotalSalesDisplay  string          `json:"totalSalesDisplay"`  // e.g. "$1,234.56"
	TotalOrdersDisplay string          `json:"totalOrdersDisplay"` // e.g. "1,234"
}

// DailySalesResponse represents one point of the sales trend
type DailySalesResponse struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Sales decimal.Decimal `json:"sales"`
}

// LabelAmountResponse represents one bar of a breakdown chart
type LabelAmountResponse struct {
	Label        string          `json:"label"`
	Sales        decimal.Decimal `json:"sales"`
	SalesDisplay string          `json:"salesDisplay"`
}

// DailySalesListResponse wraps the sales trend series
type DailySalesListResponse struct {
	DailySales []DailySalesResponse `json:"dailySales"`
}

// BreakdownResponse wraps a category or region breakdown
type BreakdownResponse struct {
	Items []LabelAmountResponse `json:"items"`
}

// DashboardResponse represents the whole dashboard
type DashboardResponse struct {
	Source      string                `json:"source"`
	RowCount    int                   `json:"rowCount"`
	KPIs        KPIResponse           `json:"kpis"`
	DailySales  []DailySalesResponse  `json:"dailySales"`
	ByCategory  []LabelAmountResponse `json:"byCategory"`
	ByRegion    []LabelAmountResponse `json:"byRegion"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

// ErrorResponse is the blocking error shown instead of the dashboard
type ErrorResponse struct {
	Error   string   `json:"error"`            // Failure kind, e.g. "InvalidCategory"
	Message string   `json:"message"`          // Human readable, safe to display
	Values  []string `json:"values,omitempty"` // Offending columns or values
	Row     int      `json:"row,omitempty"`    // 1-based data row, when row specific
}

// ToKPIResponse converts domain KPIs to a DTO response
func ToKPIResponse(kpis domain.KPIs) KPIResponse {
	return KPIResponse{
		TotalSales:         kpis.TotalSales,
		TotalOrders:        kpis.TotalOrders,
		TotalSalesDisplay:  render.Currency(kpis.TotalSales),
		TotalOrdersDisplay: render.Count(kpis.TotalOrders),
	}
}

// ToDailySalesResponses converts the domain sales trend to DTOs
func ToDailySalesResponses(series []domain.DailySales) []DailySalesResponse {
	out := make([]DailySalesResponse, len(series))
	for i, point := range series {
		out[i] = DailySalesResponse{
			Date:  point.Date.Format(domain.DateLayout),
			Sales: point.Sales,
		}
	}
	return out
}

// ToLabelAmountResponses converts a domain breakdown to DTOs
func ToLabelAmountResponses(items []domain.LabelAmount) []LabelAmountResponse {
	out := make([]LabelAmountResponse, len(items))
	for i, item := range items {
		out[i] = LabelAmountResponse{
			Label:        item.Label,
			Sales:        item.Sales,
			SalesDisplay: render.Currency(item.Sales),
		}
	}
	return out
}

// ToDashboardResponse converts a domain summary to a DTO response
func ToDashboardResponse(summary domain.DashboardSummary) DashboardResponse {
	return DashboardResponse{
		Source:      summary.SourceID,
		RowCount:    summary.RowCount,
		KPIs:        ToKPIResponse(summary.KPIs),
		DailySales:  ToDailySalesResponses(summary.DailySales),
		ByCategory:  ToLabelAmountResponses(summary.ByCategory),
		ByRegion:    ToLabelAmountResponses(summary.ByRegion),
		GeneratedAt: summary.GeneratedAt,
	}
}
