package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles commands per chat.
type Limiter interface {
	Allow(chatID int64) bool
	Forget(chatID int64)
}

// ChatLimiter keeps one token bucket per chat in memory.
type ChatLimiter struct {
	mu    sync.Mutex
	chats map[int64]*rate.Limiter
	every rate.Limit
	burst int
	now   func() time.Time
}

// NewChatLimiter allows requests per window with the given burst.
// Example: NewChatLimiter(30, time.Minute, 5) refills one token every two
// seconds and lets five commands through back to back.
func NewChatLimiter(requests int, per time.Duration, burst int) *ChatLimiter {
	if requests <= 0 {
		requests = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &ChatLimiter{
		chats: make(map[int64]*rate.Limiter),
		every: rate.Every(per / time.Duration(requests)),
		burst: burst,
		now:   time.Now,
	}
}

var _ Limiter = (*ChatLimiter)(nil)

func (l *ChatLimiter) Allow(chatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.chats[chatID]
	if !ok {
		limiter = rate.NewLimiter(l.every, l.burst)
		l.chats[chatID] = limiter
	}
	return limiter.AllowN(l.now(), 1)
}

// Forget drops the bucket of a chat whose workspace went away.
func (l *ChatLimiter) Forget(chatID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.chats, chatID)
}
