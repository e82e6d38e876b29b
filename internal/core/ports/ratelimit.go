package ports

import (
	"context"
	"time"
)

// RateDecision is the outcome of a single rate-limit check.
type RateDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter counts hits per key. An error means the backend could not be
// consulted; callers decide whether to fail open.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}
