package repository

import (
	"context"
	"strings"
)

// TopicPrefix marks the notification topics this system owns. Only topics
// carrying the prefix are considered subscription channels; anything else in
// the registry is ignored by discovery.
const TopicPrefix = "chatime_notifier_"

// OrderingURLTag is the tag key under which a topic stores the Uber Eats
// storefront URL recorded at creation time.
const OrderingURLTag = "ubereats_url"

// Topic is one store's broadcast channel as seen by discovery.
type Topic struct {
	ID          string
	OrderingURL string
}

// TopicID derives the deterministic topic name for a store.
func TopicID(storeID string) string {
	return TopicPrefix + storeID
}

// IsNotifierTopic reports whether a topic id belongs to this system.
func IsNotifierTopic(topicID string) bool {
	return strings.HasPrefix(topicID, TopicPrefix)
}

// StoreID recovers the store id from a topic id.
func StoreID(topicID string) string {
	return strings.TrimPrefix(topicID, TopicPrefix)
}

// TopicRegistry is the external channel registry: topic existence plus
// subscriber membership is the entire subscription state of the system.
type TopicRegistry interface {
	// List returns all notifier topics with their ordering-URL tags. A topic
	// whose tag was never recorded carries an empty OrderingURL.
	List(ctx context.Context) ([]Topic, error)
	// Create registers a topic tagged with its ordering URL. Creating a topic
	// that already exists is a no-op and keeps the original tag.
	Create(ctx context.Context, storeID, orderingURL string) error
	// Subscribers returns the phone numbers attached to a topic.
	Subscribers(ctx context.Context, topicID string) ([]string, error)
	// Subscribe attaches a phone number to a topic.
	Subscribe(ctx context.Context, topicID, phone string) error
	// OrderingURL returns the topic's recorded ordering URL, or the empty
	// string when the topic or tag is absent.
	OrderingURL(ctx context.Context, topicID string) (string, error)
	// Delete removes a topic and its subscribers. Deleting a topic that does
	// not exist succeeds.
	Delete(ctx context.Context, topicID string) error
}
