package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/sales_dashboard/internal/core/domain"
	portssvc "github.com/SscSPs/sales_dashboard/internal/core/ports/services"
	"github.com/SscSPs/sales_dashboard/internal/utils/analytics"
)

// dashboardService implements the DashboardSvcFacade interface
type dashboardService struct {
	BaseService
	loader portssvc.LoaderSvcFacade
	now    func() time.Time
}

// DashboardServiceOption is a functional option for configuring the dashboard service
type DashboardServiceOption func(*dashboardService)

// WithDashboardClock overrides the time used to stamp summaries.
func WithDashboardClock(now func() time.Time) DashboardServiceOption {
	return func(s *dashboardService) {
		s.now = now
	}
}

// NewDashboardService creates a new dashboard service on top of loader.
func NewDashboardService(loader portssvc.LoaderSvcFacade, options ...DashboardServiceOption) portssvc.DashboardSvcFacade {
	svc := &dashboardService{
		loader: loader,
		now:    time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure dashboardService implements the DashboardSvcFacade interface
var _ portssvc.DashboardSvcFacade = (*dashboardService)(nil)

// KPIs returns total sales and total distinct orders.
func (s *dashboardService) KPIs(ctx context.Context, sourceID string) (*domain.KPIs, error) {
	table, err := s.loader.GetOrLoad(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	kpis := analytics.CalculateKPIs(table)
	s.LogDebug(ctx, "KPIs calculated",
		slog.String("source", sourceID),
		slog.String("total_sales", kpis.TotalSales.String()),
		slog.Int("total_orders", kpis.TotalOrders))
	return &kpis, nil
}

// DailySales returns sales per date, ascending.
func (s *dashboardService) DailySales(ctx context.Context, sourceID string) ([]domain.DailySales, error) {
	table, err := s.loader.GetOrLoad(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	series := analytics.DailySales(table)
	s.LogDebug(ctx, "Daily sales calculated", slog.String("source", sourceID), slog.Int("days", len(series)))
	return series, nil
}

// SalesByCategory returns sales per category, descending.
func (s *dashboardService) SalesByCategory(ctx context.Context, sourceID string) ([]domain.LabelAmount, error) {
	table, err := s.loader.GetOrLoad(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	return analytics.SalesByCategory(table), nil
}

// SalesByRegion returns sales per region, descending.
func (s *dashboardService) SalesByRegion(ctx context.Context, sourceID string) ([]domain.LabelAmount, error) {
	table, err := s.loader.GetOrLoad(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	return analytics.SalesByRegion(table), nil
}

// Summary returns every view computed from one table, so all views agree.
func (s *dashboardService) Summary(ctx context.Context, sourceID string) (*domain.DashboardSummary, error) {
	table, err := s.loader.GetOrLoad(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	summary := analytics.Summarize(table, s.now())
	s.LogInfo(ctx, "Dashboard summary generated",
		slog.String("source", sourceID),
		slog.Int("row_count", summary.RowCount),
		slog.Int("days", len(summary.DailySales)),
		slog.Int("categories", len(summary.ByCategory)),
		slog.Int("regions", len(summary.ByRegion)))
	return &summary, nil
}
