package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// AlertQueueKey is the Redis list that out-of-process delivery workers
// consume from
const AlertQueueKey = "tamsys:alerts:expiry"

// RedisNotifier pushes alerts onto a Redis list for asynchronous delivery
// by external workers (SMS, Slack, webhooks)
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a Redis-backed notifier
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Notify enqueues the alert
func (n *RedisNotifier) Notify(ctx context.Context, alert ExpiryAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal expiry alert: %w", err)
	}
	if err := n.client.LPush(ctx, AlertQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue expiry alert: %w", err)
	}
	return nil
}
