package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/models"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/repository"
	"github.com/aaronbrighton/chatime-ordering-helper/pkg/metrics"
)

// TopicSource is the registry surface discovery needs.
type TopicSource interface {
	List(ctx context.Context) ([]repository.Topic, error)
	Subscribers(ctx context.Context, topicID string) ([]string, error)
}

// TaskEnqueuer places probe tasks on the monitoring queue.
type TaskEnqueuer interface {
	Enqueue(task models.ProbeTask) error
}

// Sweeper periodically scans the topic registry and enqueues one probe task
// per notifier topic that currently has subscribers. Topics without
// subscribers are inert and skipped.
type Sweeper struct {
	registry TopicSource
	queue    TaskEnqueuer
	interval time.Duration
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewSweeper creates a new Sweeper.
func NewSweeper(registry TopicSource, queue TaskEnqueuer, interval time.Duration, collector *metrics.Collector, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		registry: registry,
		queue:    queue,
		interval: interval,
		metrics:  collector,
		logger:   logger,
	}
}

// Run sweeps once per tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one discovery pass. Failures are isolated per topic: one
// bad topic must not block monitoring of the rest.
func (s *Sweeper) Sweep(ctx context.Context) {
	s.metrics.Sweeps.Add(1)

	topics, err := s.registry.List(ctx)
	if err != nil {
		s.logger.Error("topic listing failed", slog.Any("error", err))
		return
	}

	for _, topic := range topics {
		if !repository.IsNotifierTopic(topic.ID) {
			continue
		}

		subscribers, err := s.registry.Subscribers(ctx, topic.ID)
		if err != nil {
			s.logger.Error("subscriber listing failed", slog.String("topic_id", topic.ID), slog.Any("error", err))
			continue
		}
		if len(subscribers) == 0 {
			continue
		}

		task := models.ProbeTask{TopicID: topic.ID, OrderingURL: topic.OrderingURL}
		if err := s.queue.Enqueue(task); err != nil {
			s.logger.Error("probe task enqueue failed", slog.String("topic_id", topic.ID), slog.Any("error", err))
			continue
		}
		s.metrics.TasksEnqueued.Add(1)
		s.logger.Info("probe task enqueued",
			slog.String("topic_id", topic.ID),
			slog.Int("subscribers", len(subscribers)),
		)
	}
}
