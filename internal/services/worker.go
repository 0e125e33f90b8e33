package services

import (
	"context"
	"log/slog"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/models"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/repository"
	"github.com/aaronbrighton/chatime-ordering-helper/pkg/metrics"
	"github.com/streadway/amqp"
)

// Prober fetches an ordering page body.
type Prober interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// NotificationPublisher fans a message out to a topic's subscribers.
type NotificationPublisher interface {
	Publish(ctx context.Context, topicID, message string) error
}

// TeardownStarter kicks off a delayed topic deletion.
type TeardownStarter interface {
	Start(topicID string)
}

// Worker consumes probe tasks one at a time. An open store triggers exactly
// one notification publish and one teardown start; a closed store is a no-op
// until the next sweep enqueues the topic again.
type Worker struct {
	prober    Prober
	publisher NotificationPublisher
	teardown  TeardownStarter
	events    *repository.EventStore
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// NewWorker creates a new Worker.
func NewWorker(
	prober Prober,
	publisher NotificationPublisher,
	teardown TeardownStarter,
	events *repository.EventStore,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Worker {
	return &Worker{
		prober:    prober,
		publisher: publisher,
		teardown:  teardown,
		events:    events,
		metrics:   collector,
		logger:    logger,
	}
}

// Handle processes one probe task. A returned error aborts the task without
// retry; the sweep cadence re-enqueues eligible topics every interval, so a
// dropped task only delays detection by one cycle.
func (w *Worker) Handle(ctx context.Context, task models.ProbeTask) error {
	w.metrics.ProbesChecked.Add(1)

	body, err := w.prober.Fetch(ctx, task.OrderingURL)
	if err != nil {
		w.logger.Error("ordering probe failed", slog.String("topic_id", task.TopicID), slog.Any("error", err))
		return err
	}

	if IsClosed(body) {
		w.logger.Info("store not open for orders", slog.String("topic_id", task.TopicID))
		return nil
	}

	w.metrics.StoresOpen.Add(1)
	w.logger.Info("store open for orders", slog.String("topic_id", task.TopicID))

	if err := w.publisher.Publish(ctx, task.TopicID, "Order now from: "+task.OrderingURL); err != nil {
		w.logger.Error("notification publish failed", slog.String("topic_id", task.TopicID), slog.Any("error", err))
		return err
	}
	w.metrics.NotificationsSent.Add(1)
	if err := w.events.Record(repository.EventNotificationSent, repository.StoreID(task.TopicID), "", task.OrderingURL); err != nil {
		w.logger.Warn("audit event not recorded", slog.Any("error", err))
	}

	w.teardown.Start(task.TopicID)
	w.metrics.TeardownsStarted.Add(1)
	return nil
}

// Consumer pulls probe tasks off the monitoring queue and feeds them to the
// worker with prefetch 1, so probes for different stores are never coalesced.
type Consumer struct {
	conn   *amqp.Connection
	queue  string
	worker *Worker
	logger *slog.Logger
}

// NewConsumer creates a new Consumer.
func NewConsumer(conn *amqp.Connection, queue string, worker *Worker, logger *slog.Logger) *Consumer {
	return &Consumer{conn: conn, queue: queue, worker: worker, logger: logger}
}

// Run consumes until ctx is cancelled or the delivery stream closes.
func (c *Consumer) Run(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			task := taskFromDelivery(delivery)
			if err := c.worker.Handle(ctx, task); err != nil {
				// Task aborted; the next sweep re-enqueues the topic.
				_ = delivery.Nack(false, false)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

func taskFromDelivery(delivery amqp.Delivery) models.ProbeTask {
	return models.ProbeTask{
		TopicID:     headerString(delivery.Headers, headerTopicID),
		OrderingURL: headerString(delivery.Headers, headerOrderingURL),
	}
}

func headerString(headers amqp.Table, key string) string {
	if headers == nil {
		return ""
	}
	if v, ok := headers[key].(string); ok {
		return v
	}
	return ""
}
