package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChatLimiterBurstThenRefill(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewChatLimiter(30, time.Minute, 3)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(1), "call %d", i)
	}
	assert.False(t, l.Allow(1))
	assert.True(t, l.Allow(2), "other chats have their own bucket")

	now = now.Add(2 * time.Second)
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))
}

func TestChatLimiterForget(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewChatLimiter(1, time.Hour, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow(7))
	assert.False(t, l.Allow(7))
	l.Forget(7)
	assert.True(t, l.Allow(7))
}
