package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/sales_dashboard/internal/adapters/filesystem"
	"github.com/SscSPs/sales_dashboard/internal/core/ports/repositories"
	"github.com/SscSPs/sales_dashboard/internal/core/services"
	"github.com/SscSPs/sales_dashboard/internal/handlers"
	"github.com/SscSPs/sales_dashboard/internal/middleware"
	"github.com/SscSPs/sales_dashboard/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// @title ShopSmart Sales Dashboard API
// @version 1.0
// @description Sales KPIs, trends and breakdowns computed from the ShopSmart transactions file.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	repos := repositories.RepositoryProvider{
		TransactionSource: filesystem.NewCSVSource(filesystem.FingerprintMode(cfg.FingerprintMode)),
	}
	serviceContainer := services.NewServiceContainer(cfg, repos)

	// Load once at startup so a broken data file shows up in the logs right away.
	// The server still starts; every request reports the same error until the file is fixed.
	ctx := middleware.WithLogger(context.Background(), logger)
	if _, err := serviceContainer.Loader.GetOrLoad(ctx, cfg.DataFilePath); err != nil {
		logger.Warn("Initial load of data file failed", slog.String("path", cfg.DataFilePath), slog.String("error", err.Error()))
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.CORS(cfg.CORSAllowedOrigins))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("data_file", cfg.DataFilePath),
		slog.String("fingerprint_mode", cfg.FingerprintMode),
		slog.Bool("strict_integrity", cfg.StrictIntegrity))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
