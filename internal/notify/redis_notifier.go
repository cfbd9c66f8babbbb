package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// mockPushTTL is how long a mock push stays readable after delivery.
const mockPushTTL = 5 * time.Minute

// RedisNotifier implements the Notifier interface by storing pushes in Redis.
// It is used with MOCK_SERVICES so end-to-end tests can read back what would
// have been delivered to each rescuer.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a new RedisNotifier.
func NewRedisNotifier(client *redis.Client) Notifier {
	return &RedisNotifier{client: client}
}

// MockPushKey returns the Redis key a mock push for the given rescuer is stored under.
func MockPushKey(rescuerID string) string {
	return fmt.Sprintf("mockpush:%s", rescuerID)
}

// Notify stores each push as a JSON string keyed by rescuer ID, with a short TTL.
// A later push to the same rescuer overwrites the earlier one.
func (n *RedisNotifier) Notify(ctx context.Context, pushes []Push) error {
	for _, p := range pushes {
		payload := map[string]interface{}{
			"rescuer_id": p.RescuerID,
			"title":      p.Title,
			"body":       p.Body,
			"data":       p.Data,
			"sent_at":    time.Now().UTC().Format(time.RFC3339Nano),
		}
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal push data: %w", err)
		}

		key := MockPushKey(p.RescuerID)
		if err := n.client.Set(ctx, key, jsonData, mockPushTTL).Err(); err != nil {
			return fmt.Errorf("failed to store push in Redis key '%s': %w", key, err)
		}
		log.Printf("Mock push stored in Redis key '%s' (TTL: %v, Title: %s)", key, mockPushTTL, p.Title)
	}
	return nil
}
