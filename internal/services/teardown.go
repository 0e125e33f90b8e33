package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/repository"
)

// TopicDeleter is the registry surface teardown needs.
type TopicDeleter interface {
	Delete(ctx context.Context, topicID string) error
}

// Teardown deletes a topic after a grace interval. Notification fan-out may
// still be in flight when teardown starts; the wait gives slow deliveries
// time to leave the building before the topic disappears. Deleting a topic
// that is already gone counts as success, so two racing teardowns for the
// same store are harmless.
type Teardown struct {
	registry TopicDeleter
	events   *repository.EventStore
	grace    time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewTeardown creates a new Teardown runner.
func NewTeardown(registry TopicDeleter, events *repository.EventStore, grace, timeout time.Duration, logger *slog.Logger) *Teardown {
	return &Teardown{
		registry: registry,
		events:   events,
		grace:    grace,
		timeout:  timeout,
		logger:   logger,
	}
}

// Start begins one teardown run. Fire-and-forget from the caller's
// perspective: the run waits out the grace interval, then deletes the topic.
// The whole run is bounded by the configured timeout, after which it is
// abandoned without retry.
func (t *Teardown) Start(topicID string) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.run(topicID)
	}()
}

func (t *Teardown) run(topicID string) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	timer := time.NewTimer(t.grace)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		t.logger.Error("teardown abandoned before delete", slog.String("topic_id", topicID), slog.Any("error", ctx.Err()))
		return
	case <-timer.C:
	}

	if err := t.registry.Delete(ctx, topicID); err != nil {
		t.logger.Error("topic delete failed", slog.String("topic_id", topicID), slog.Any("error", err))
		return
	}
	t.logger.Info("topic deleted", slog.String("topic_id", topicID))
	if err := t.events.Record(repository.EventTopicDeleted, repository.StoreID(topicID), "", ""); err != nil {
		t.logger.Warn("audit event not recorded", slog.Any("error", err))
	}
}

// Wait blocks until all in-flight teardown runs finish. Used on shutdown so
// the worker does not exit with deletes pending.
func (t *Teardown) Wait() {
	t.wg.Wait()
}
