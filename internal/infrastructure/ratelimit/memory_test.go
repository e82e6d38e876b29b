package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_BurstThenBlock(t *testing.T) {
	now := time.Now()
	l := NewMemoryLimiter(3, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
		require.True(t, d.Allowed)
	}

	d, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Equal(t, 3, d.Limit)
	require.InDelta(t, float64(20*time.Second), float64(d.RetryAfter), float64(time.Second))
}

func TestMemoryLimiter_Refills(t *testing.T) {
	now := time.Now()
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _ = l.Allow(ctx, "ip")
	}
	d, _ := l.Allow(ctx, "ip")
	require.False(t, d.Allowed)

	now = now.Add(31 * time.Second)
	d, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	require.True(t, d.Allowed)
}

func TestMemoryLimiter_SweepsIdleBuckets(t *testing.T) {
	now := time.Now()
	l := NewMemoryLimiter(1, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = l.Allow(ctx, "old")
	now = now.Add(idleTTL + time.Minute)
	_, _ = l.Allow(ctx, "new")

	require.NotContains(t, l.buckets, "old")
	require.Contains(t, l.buckets, "new")
}
