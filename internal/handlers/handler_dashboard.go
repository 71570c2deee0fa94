package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/sales_dashboard/internal/apperrors"
	portssvc "github.com/SscSPs/sales_dashboard/internal/core/ports/services"
	"github.com/SscSPs/sales_dashboard/internal/dto"
	"github.com/SscSPs/sales_dashboard/internal/middleware"
	"github.com/SscSPs/sales_dashboard/internal/render"
	"github.com/gin-gonic/gin"
)

// dashboardHandler handles HTTP requests for the sales dashboard
type dashboardHandler struct {
	dashboardService portssvc.DashboardSvcFacade
	loaderService    portssvc.LoaderSvcFacade
	sourceID         string
}

// newDashboardHandler creates a new dashboardHandler serving views of sourceID
func newDashboardHandler(services *portssvc.ServiceContainer, sourceID string) *dashboardHandler {
	return &dashboardHandler{
		dashboardService: services.Dashboard,
		loaderService:    services.Loader,
		sourceID:         sourceID,
	}
}

// RegisterDashboardRoutes registers the dashboard views and charts of sourceID
func RegisterDashboardRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, sourceID string) {
	h := newDashboardHandler(services, sourceID)

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("", h.getSummary)
		dashboard.POST("/refresh", h.refresh)
		dashboard.GET("/kpis", h.getKPIs)
		dashboard.GET("/daily-sales", h.getDailySales)
		dashboard.GET("/categories", h.getCategories)
		dashboard.GET("/regions", h.getRegions)

		charts := dashboard.Group("/charts")
		charts.GET("/daily-sales.png", h.getDailySalesChart)
		charts.GET("/categories.png", h.getCategoriesChart)
		charts.GET("/regions.png", h.getRegionsChart)
	}
}

// getSummary godoc
// @Summary Get the sales dashboard
// @Description Returns KPIs, the daily sales trend and the category and region breakdowns computed from one load of the data file. Any load or validation failure blocks the whole dashboard.
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Failure 422 {object} dto.ErrorResponse "Data file failed parsing or validation"
// @Failure 500 {object} dto.ErrorResponse "Unexpected error"
// @Failure 503 {object} dto.ErrorResponse "Data file missing or unreadable"
// @Router /dashboard [get]
func (h *dashboardHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.dashboardService.Summary(c.Request.Context(), h.sourceID)
	if err != nil {
		respondWithPipelineError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardResponse(*summary))
}

// refresh godoc
// @Summary Refresh the sales dashboard
// @Description Drops the cached table and rebuilds the dashboard from a fresh read, for sources whose fingerprint does not catch every change.
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Failure 422 {object} dto.ErrorResponse "Data file failed parsing or validation"
// @Failure 500 {object} dto.ErrorResponse "Unexpected error"
// @Failure 503 {object} dto.ErrorResponse "Data file missing or unreadable"
// @Router /dashboard/refresh [post]
func (h *dashboardHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	h.loaderService.Invalidate(h.sourceID)
	logger.Info("Dashboard cache invalidated", slog.String("source", h.sourceID))

	h.getSummary(c)
}

// getKPIs godoc
// @Summary Get the KPI cards
// @Description Returns total sales and the number of distinct orders
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.KPIResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /dashboard/kpis [get]
func (h *dashboardHandler) getKPIs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kpis, err := h.dashboardService.KPIs(c.Request.Context(), h.sourceID)
	if err != nil {
		respondWithPipelineError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToKPIResponse(*kpis))
}

// getDailySales godoc
// @Summary Get the sales trend
// @Description Returns sales per date in ascending date order
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DailySalesListResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /dashboard/daily-sales [get]
func (h *dashboardHandler) getDailySales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	series, err := h.dashboardService.DailySales(c.Request.Context(), h.sourceID)
	if err != nil {
		respondWithPipelineError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.DailySalesListResponse{DailySales: dto.ToDailySalesResponses(series)})
}

// getCategories godoc
// @Summary Get sales by product category
// @Description Returns sales per category, largest first
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.BreakdownResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /dashboard/categories [get]
func (h *dashboardHandler) getCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	items, err := h.dashboardService.SalesByCategory(c.Request.Context(), h.sourceID)
	if err != nil {
		respondWithPipelineError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.BreakdownResponse{Items: dto.ToLabelAmountResponses(items)})
}

// getRegions godoc
// @Summary Get sales by region
// @Description Returns sales per region, largest first
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.BreakdownResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /dashboard/regions [get]
func (h *dashboardHandler) getRegions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	items, err := h.dashboardService.SalesByRegion(c.Request.Context(), h.sourceID)
	if err != nil {
		respondWithPipelineError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.BreakdownResponse{Items: dto.ToLabelAmountResponses(items)})
}

// getDailySalesChart godoc
// @Summary Sales trend chart
// @Description Renders the chart as a PNG image. Returns 204 when there is nothing to plot.
// @Tags dashboard
// @Produce png
// @Success 200 {file} binary
// @Success 204 "No data to chart"
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /dashboard/charts/daily-sales.png [get]
func (h *dashboardHandler) getDailySalesChart(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	series, err := h.dashboardService.DailySales(c.Request.Context(), h.sourceID)
	if err != nil {
		respondWithPipelineError(c, logger, err)
		return
	}

	writePNG(c, logger, func(w io.Writer) error {
		return render.DailySalesChart(w, series)
	})
}

// getCategoriesChart godoc
// @Summary Sales by category chart
// @Description Renders the chart as a PNG image. Returns 204 when there is nothing to plot.
// @Tags dashboard
// @Produce png
// @Success 200 {file} binary
// @Success 204 "No data to chart"
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /dashboard/charts/categories.png [get]
func (h *dashboardHandler) getCategoriesChart(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	items, err := h.dashboardService.SalesByCategory(c.Request.Context(), h.sourceID)
	if err != nil {
		respondWithPipelineError(c, logger, err)
		return
	}

	writePNG(c, logger, func(w io.Writer) error {
		return render.BreakdownChart(w, render.TitleCategories, items, render.CategoryColor)
	})
}

// getRegionsChart godoc
// @Summary Sales by region chart
// @Description Renders the chart as a PNG image. Returns 204 when there is nothing to plot.
// @Tags dashboard
// @Produce png
// @Success 200 {file} binary
// @Success 204 "No data to chart"
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /dashboard/charts/regions.png [get]
func (h *dashboardHandler) getRegionsChart(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	items, err := h.dashboardService.SalesByRegion(c.Request.Context(), h.sourceID)
	if err != nil {
		respondWithPipelineError(c, logger, err)
		return
	}

	writePNG(c, logger, func(w io.Writer) error {
		return render.BreakdownChart(w, render.TitleRegions, items, render.RegionColor)
	})
}

// writePNG renders into a buffer first so a failed render never sends a partial image.
func writePNG(c *gin.Context, logger *slog.Logger, draw func(io.Writer) error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		if errors.Is(err, render.ErrEmptySeries) {
			c.Status(http.StatusNoContent)
			return
		}
		logger.Error("Failed to render chart", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "RenderError", Message: "The chart could not be drawn"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// respondWithPipelineError maps a load, parse or validation failure to a blocking
// error response whose message can be shown directly to the user.
func respondWithPipelineError(c *gin.Context, logger *slog.Logger, err error) {
	var de *apperrors.DataError
	if !errors.As(err, &de) {
		logger.Error("Unexpected error while building dashboard", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "UnexpectedError",
			Message: "The dashboard could not be generated. Please try again later.",
		})
		return
	}

	status := http.StatusUnprocessableEntity
	if errors.Is(err, apperrors.ErrSource) {
		status = http.StatusServiceUnavailable
	}

	logger.Warn("Dashboard blocked by data error",
		slog.String("kind", string(de.Kind)),
		slog.String("error", de.Error()),
		slog.Int("status", status))
	c.JSON(status, dto.ErrorResponse{
		Error:   string(de.Kind),
		Message: de.Message,
		Values:  de.Values,
		Row:     de.Row,
	})
}
