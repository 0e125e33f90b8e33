package main

import (
	"context"
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
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logr := logger.New("sweeper", cfg.LogLevel)

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
	publisher := services.NewProbePublisher(mqManager.Connection(), cfg.ProbeQueue)
	sweeper := services.NewSweeper(registry, publisher, cfg.SweepInterval, metrics.New(), logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logr.Info("sweeper started", slog.Duration("interval", cfg.SweepInterval))
	sweeper.Run(ctx)
	logr.Info("sweeper exiting")
}
