package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/stockpulse/stockpulse-go/internal/api"
	"github.com/stockpulse/stockpulse-go/internal/cache"
	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/database"
	"github.com/stockpulse/stockpulse-go/internal/logging"
	"github.com/stockpulse/stockpulse-go/internal/market"
	"github.com/stockpulse/stockpulse-go/internal/scanner"
	"github.com/stockpulse/stockpulse-go/internal/services"
	"github.com/stockpulse/stockpulse-go/internal/telemetry"
)

func main() {
	// .env is optional, real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logrus.SetLevel(logging.ParseLogrusLevel(cfg.LogLevel))
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logger := logging.NewStandardOTLPLogger(logging.OTLPConfig{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Environment,
		LogLevel:       cfg.LogLevel,
	})
	logger.LogStartup("stockpulse-server", cfg.Telemetry.ServiceVersion, cfg.Server.Port)

	if err := telemetry.InitTelemetry(telemetry.TelemetryConfig{
		Enabled:        cfg.Telemetry.Enabled,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		LogLevel:       cfg.Telemetry.LogLevel,
	}); err != nil {
		logrus.WithError(err).Warn("Failed to initialize telemetry, continuing without tracing")
	}
	defer telemetry.Shutdown()

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	quoteCache := cache.NewRedisQuoteCache(redis, cfg.Market.QuoteCacheTTLDuration())
	marketClient := market.NewClient(cfg.Market)
	notifier := services.NewNotificationService(cfg.Telegram)
	scannerService := scanner.NewService(scanner.NewStore(db.Pool), marketClient, quoteCache, notifier, cfg.Scanner)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware("stockpulse-server"))

	api.SetupRoutes(router, db, redis, scannerService)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.LogShutdown("stockpulse-server", "signal received")
	logrus.Info("Server exited")
}
