package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const throttlePrefix = "throttle:"

// Throttle grants at most one action per key per window, backed by Redis.
// Key format: throttle:<key>
type Throttle struct {
	client *redis.Client
}

// NewThrottle creates a Throttle wrapping the given Redis client.
func NewThrottle(client *redis.Client) *Throttle {
	return &Throttle{client: client}
}

// Allow reports whether the action for key may proceed. The first call in
// a window claims the key; later calls in the same window return false.
func (t *Throttle) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	ok, err := t.client.SetNX(ctx, throttlePrefix+key, time.Now().Unix(), window).Result()
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return ok, nil
}

