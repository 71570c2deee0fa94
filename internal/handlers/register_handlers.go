package handlers

import (
	"log/slog"

	portssvc "github.com/SscSPs/sales_dashboard/internal/core/ports/services"
	"github.com/SscSPs/sales_dashboard/internal/middleware"
	"github.com/SscSPs/sales_dashboard/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	return setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	ipLimiter, err := middleware.NewIPLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}
	slog.Info("Rate limiting API", slog.String("rate", cfg.RateLimit))

	v1 := r.Group("/api/v1", middleware.RateLimit(ipLimiter))

	registerHomeRoutes(v1)
	RegisterDashboardRoutes(v1, services, cfg.DataFilePath)
	return nil
}
