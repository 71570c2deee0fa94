package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome reports that the API is up and where the dashboard lives.
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message":   "ShopSmart Sales Dashboard API v1",
		"dashboard": "/api/v1/dashboard",
	})
}

// registerHomeRoutes registers the API root route
func registerHomeRoutes(group *gin.RouterGroup) {
	group.GET("/", getHome)
}
