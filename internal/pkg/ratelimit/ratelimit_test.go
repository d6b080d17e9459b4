package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiterBurstThenRefill(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("conv:1:user:7", 3, 3*time.Second), "call %d", i)
	}
	assert.False(t, l.Allow("conv:1:user:7", 3, 3*time.Second))

	// another key has its own bucket
	assert.True(t, l.Allow("conv:1:user:8", 3, 3*time.Second))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("conv:1:user:7", 3, 3*time.Second))
	assert.False(t, l.Allow("conv:1:user:7", 3, 3*time.Second))
}

func TestMemoryLimiterIgnoresDisabledLimits(t *testing.T) {
	l := NewMemoryLimiter()
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("", 1, time.Second))
		assert.True(t, l.Allow("k", 0, time.Second))
		assert.True(t, l.Allow("k", 1, 0))
	}
}

func TestMemoryLimiterEvictsIdleKeys(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a", 1, time.Hour)
	assert.Len(t, l.buckets, 1)

	now = now.Add(time.Hour)
	l.Allow("b", 1, time.Hour)
	assert.NotContains(t, l.buckets, "a")
	assert.Contains(t, l.buckets, "b")
}

func TestNilRedisLimiterAllows(t *testing.T) {
	var l *RedisLimiter
	assert.Nil(t, NewRedisLimiter(nil, "x"))
	assert.True(t, l.Allow("k", 1, time.Second))
}
