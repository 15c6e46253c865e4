package api

import (
	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockpulse-go/internal/api/handlers"
	"github.com/stockpulse/stockpulse-go/internal/database"
	"github.com/stockpulse/stockpulse-go/internal/middleware"
	"github.com/stockpulse/stockpulse-go/internal/scanner"
)

// SetupRoutes registers all HTTP routes on the router.
func SetupRoutes(router *gin.Engine, db *database.PostgresDB, redis *database.RedisClient, scannerService *scanner.Service) {
	router.Use(middleware.TelemetryMiddleware())

	healthHandler := handlers.NewHealthHandler(db, redis)
	router.GET("/health", healthHandler.Health)

	scannerHandler := handlers.NewScannerHandler(scannerService)

	v1 := router.Group("/api/v1")
	{
		scannerGroup := v1.Group("/scanner")
		{
			scannerGroup.POST("/scan", scannerHandler.TriggerScan)
			scannerGroup.GET("/status", scannerHandler.GetStatus)
			scannerGroup.GET("/latest", scannerHandler.GetLatest)
			scannerGroup.GET("/alert", scannerHandler.GetActiveAlert)
			scannerGroup.GET("/scan/results", scannerHandler.GetScanResults)
		}
	}
}
