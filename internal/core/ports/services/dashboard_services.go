package services

import (
	"context"

	"github.com/SscSPs/sales_dashboard/internal/core/domain"
)

// DashboardSvcFacade computes dashboard views for a source.
// Every method loads (or reuses) the table first; any load failure blocks the view.
type DashboardSvcFacade interface {
	// KPIs returns total sales and total distinct orders.
	KPIs(ctx context.Context, sourceID string) (*domain.KPIs, error)

	// DailySales returns sales per date, ascending.
	DailySales(ctx context.Context, sourceID string) ([]domain.DailySales, error)

	// SalesByCategory returns sales per category, descending.
	SalesByCategory(ctx context.Context, sourceID string) ([]domain.LabelAmount, error)

	// SalesByRegion returns sales per region, descending.
	SalesByRegion(ctx context.Context, sourceID string) ([]domain.LabelAmount, error)

	// Summary returns every view computed from one table.
	Summary(ctx context.Context, sourceID string) (*domain.DashboardSummary, error)
}
