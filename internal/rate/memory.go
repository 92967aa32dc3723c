package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter es la variante in-process del fixed window. Misma
// semántica que RedisLimiter pero el presupuesto es por réplica.
type MemoryLimiter struct {
	mu     sync.Mutex
	max    int64
	window time.Duration

	winStart time.Time
	hits     map[string]int64
}

// NewMemoryLimiter crea un limiter local.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:    int64(max),
		window: window,
		hits:   make(map[string]int64),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	win := now.Truncate(l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	if !win.Equal(l.winStart) {
		l.winStart = win
		l.hits = make(map[string]int64)
	}

	l.hits[key]++
	hits := l.hits[key]

	res := Result{
		Allowed:   hits <= l.max,
		Remaining: max64(l.max-hits, 0),
	}
	if !res.Allowed {
		res.RetryAfter = win.Add(l.window).Sub(now)
	}
	return res, nil
}
