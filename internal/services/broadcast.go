package services

import (
	"context"
	"log/slog"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/repository"
)

// SubscriberSource lists the phone numbers attached to a topic.
type SubscriberSource interface {
	Subscribers(ctx context.Context, topicID string) ([]string, error)
}

// Broadcaster fans a message out to every subscriber of a topic, one SMS per
// phone number. Fan-out is all-or-nothing from the caller's perspective: the
// first send failure aborts the publish.
type Broadcaster struct {
	registry SubscriberSource
	sms      SMSSender
	logger   *slog.Logger
}

// NewBroadcaster creates a new Broadcaster.
func NewBroadcaster(registry SubscriberSource, sms SMSSender, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{registry: registry, sms: sms, logger: logger}
}

// Publish sends message to all current subscribers of topicID.
func (b *Broadcaster) Publish(ctx context.Context, topicID, message string) error {
	subscribers, err := b.registry.Subscribers(ctx, topicID)
	if err != nil {
		return err
	}
	for _, phone := range subscribers {
		if err := b.sms.Send(ctx, phone, message); err != nil {
			return err
		}
		b.logger.Info("notification delivered",
			slog.String("topic_id", topicID),
			slog.String("store_id", repository.StoreID(topicID)),
		)
	}
	return nil
}
