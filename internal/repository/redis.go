package repository

import (
	"context"
	"strings"

	"github.com/go-redis/redis/v8"
)

const (
	topicKeyPrefix       = "topic:"
	subscribersKeySuffix = ":subscribers"
)

// RedisRegistry is the Redis-backed TopicRegistry. Each topic is a hash
// holding its tags; subscribers live in a companion set. Both keys share the
// topic id so a delete can clear the pair.
type RedisRegistry struct {
	Client *redis.Client
}

// NewRedisRegistry creates a new RedisRegistry.
func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{Client: client}
}

func topicKey(topicID string) string {
	return topicKeyPrefix + topicID
}

func subscribersKey(topicID string) string {
	return topicKey(topicID) + subscribersKeySuffix
}

// List scans for notifier topic hashes and resolves their ordering-URL tags.
func (r *RedisRegistry) List(ctx context.Context) ([]Topic, error) {
	var topics []Topic
	var cursor uint64
	for {
		keys, next, err := r.Client.Scan(ctx, cursor, topicKeyPrefix+TopicPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			if strings.HasSuffix(key, subscribersKeySuffix) {
				continue
			}
			id := strings.TrimPrefix(key, topicKeyPrefix)
			url, err := r.OrderingURL(ctx, id)
			if err != nil {
				return nil, err
			}
			topics = append(topics, Topic{ID: id, OrderingURL: url})
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return topics, nil
}

// Create registers the topic hash with its ordering-URL tag. HSETNX makes the
// call idempotent: a second create for the same store leaves the first tag in
// place and does not error.
func (r *RedisRegistry) Create(ctx context.Context, storeID, orderingURL string) error {
	return r.Client.HSetNX(ctx, topicKey(TopicID(storeID)), OrderingURLTag, orderingURL).Err()
}

// Subscribers returns the phone numbers attached to the topic. A missing
// topic yields an empty slice, not an error.
func (r *RedisRegistry) Subscribers(ctx context.Context, topicID string) ([]string, error) {
	return r.Client.SMembers(ctx, subscribersKey(topicID)).Result()
}

// Subscribe attaches a phone number to the topic's subscriber set.
func (r *RedisRegistry) Subscribe(ctx context.Context, topicID, phone string) error {
	return r.Client.SAdd(ctx, subscribersKey(topicID), phone).Err()
}

// OrderingURL reads the topic's ordering-URL tag, empty when absent.
func (r *RedisRegistry) OrderingURL(ctx context.Context, topicID string) (string, error) {
	url, err := r.Client.HGet(ctx, topicKey(topicID), OrderingURLTag).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

// Delete removes the topic hash and its subscriber set. DEL on missing keys
// succeeds, which gives the idempotence the teardown workflow relies on.
func (r *RedisRegistry) Delete(ctx context.Context, topicID string) error {
	return r.Client.Del(ctx, topicKey(topicID), subscribersKey(topicID)).Err()
}
