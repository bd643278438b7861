package auth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter decides whether a keyed request may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// SlidingWindowLimiter counts requests per key inside a rolling
// window.
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string]*window
	limit      int
	windowSize time.Duration
}

type window struct {
	requests []time.Time
	mu       sync.Mutex
}

// NewSlidingWindowLimiter creates a limiter allowing limit requests
// per windowSize.
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		windows:    make(map[string]*window),
		limit:      limit,
		windowSize: windowSize,
	}
}

// Allow reports whether one more request for key fits in the window.
func (l *SlidingWindowLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	w, exists := l.windows[key]
	if !exists {
		w = &window{}
		l.windows[key] = w
	}
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-l.windowSize)

	kept := w.requests[:0]
	for _, at := range w.requests {
		if at.After(windowStart) {
			kept = append(kept, at)
		}
	}
	w.requests = kept

	if len(w.requests) >= l.limit {
		return false, nil
	}
	w.requests = append(w.requests, now)
	return true, nil
}

// IPRateLimiter limits by client address.
type IPRateLimiter struct {
	limiter RateLimiter
}

// NewIPRateLimiter creates an address-keyed limiter allowing
// requestsPerMinute requests.
func NewIPRateLimiter(requestsPerMinute int) *IPRateLimiter {
	return &IPRateLimiter{
		limiter: NewSlidingWindowLimiter(requestsPerMinute, time.Minute),
	}
}

// Allow checks whether a request from ip may proceed.
func (l *IPRateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	return l.limiter.Allow(ctx, fmt.Sprintf("ip:%s", ip))
}
