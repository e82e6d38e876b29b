package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawcare/auth-service/internal/core/ports"
)

const keyPrefix = "ratelimit:"

// RateLimiter is a fixed-window counter shared by every instance that points
// at the same Redis. Key format: ratelimit:<key>
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter allows limit hits per key in each window.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow counts one hit for key. The window starts on the first hit and the
// counter expires with it.
func (l *RateLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	k := keyPrefix + key

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.PExpire(ctx, k, l.window).Err(); err != nil {
			return ports.RateDecision{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	d := ports.RateDecision{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: max(l.limit-int(count), 0),
	}
	if d.Allowed {
		return d, nil
	}

	ttl, err := l.client.PTTL(ctx, k).Result()
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit ttl: %w", err)
	}
	if ttl < 0 {
		// Counter lost its expiry; start a fresh window.
		_ = l.client.PExpire(ctx, k, l.window).Err()
		ttl = l.window
	}
	d.RetryAfter = ttl
	return d, nil
}
