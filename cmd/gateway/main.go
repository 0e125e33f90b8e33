package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/config"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/handlers"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/repository"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/routes"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/services"
	"github.com/aaronbrighton/chatime-ordering-helper/pkg/logger"
	"github.com/aaronbrighton/chatime-ordering-helper/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logr := logger.New("gateway", cfg.LogLevel)

	// Initialize the audit log, if a database is configured
	var events *repository.EventStore
	if cfg.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			logr.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		events = repository.NewEventStore(db)
	}

	// Initialize Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})
	defer redisClient.Close()

	metricsCollector := metrics.New()

	// Initialize the topic registry and upstream adapters
	registry := repository.NewRedisRegistry(redisClient)
	geocoder := services.NewGeocodeClient(cfg.GeocoderURL, cfg.GeocoderIndex)
	locator := services.NewLocatorClient(cfg.LocatorURL)
	smsClient := services.NewSMSClient(cfg.SMSGatewayURL, cfg.OriginationNumber)

	subscriptions := services.NewSubscriptionService(
		geocoder,
		locator,
		registry,
		smsClient,
		events,
		logr,
		cfg.StoreRadiusKM,
		cfg.StoreCategory,
	)

	// Initialize handlers
	smsHandler := handlers.NewSMSHandler(subscriptions, events, metricsCollector, logr)
	channelsHandler := handlers.NewChannelsHandler(registry)

	// Initialize router
	router := gin.Default()
	router.Use(metricsCollector.GinMiddleware())
	router.GET("/metrics", gin.WrapH(metricsCollector.Handler()))

	// Setup routes
	routes.SetupRoutes(router, smsHandler, channelsHandler, redisClient, cfg.SMSWebhookToken)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Error("server listen failed", slog.Any("error", err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down server")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("server forced to shutdown", slog.Any("error", err))
	}

	logr.Info("server exiting")
}
