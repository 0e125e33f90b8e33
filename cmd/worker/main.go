package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/config"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/repository"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/services"
	"github.com/aaronbrighton/chatime-ordering-helper/pkg/logger"
	"github.com/aaronbrighton/chatime-ordering-helper/pkg/metrics"
	"github.com/aaronbrighton/chatime-ordering-helper/pkg/rabbitmq"
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

	logr := logger.New("worker", cfg.LogLevel)

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

	// Initialize RabbitMQ
	mqManager, err := rabbitmq.NewManager(cfg.RabbitMQURL, logr)
	if err != nil {
		logr.Error("failed to connect to RabbitMQ", slog.Any("error", err))
		os.Exit(1)
	}
	defer mqManager.Close()

	if err := mqManager.DeclareProbeQueue(cfg.ProbeQueue); err != nil {
		logr.Error("failed to declare probe queue", slog.Any("error", err))
		os.Exit(1)
	}

	registry := repository.NewRedisRegistry(redisClient)
	smsClient := services.NewSMSClient(cfg.SMSGatewayURL, cfg.OriginationNumber)
	broadcaster := services.NewBroadcaster(registry, smsClient, logr)
	teardown := services.NewTeardown(registry, events, cfg.TeardownGrace, cfg.TeardownTimeout, logr)
	worker := services.NewWorker(services.NewProbeClient(), broadcaster, teardown, events, metrics.New(), logr)
	consumer := services.NewConsumer(mqManager.Connection(), cfg.ProbeQueue, worker, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logr.Info("worker started", slog.String("queue", cfg.ProbeQueue))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logr.Error("consumer stopped", slog.Any("error", err))
	}

	// Let in-flight teardowns finish their grace waits before exiting
	logr.Info("waiting for in-flight teardowns")
	teardown.Wait()
	logr.Info("worker exiting")
}
