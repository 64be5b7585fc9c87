package ratelimiter

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	maxQueuedPerKey = 5
	evictThreshold  = 1000
)

var ErrLimitExceeded = errors.New("too many queued requests")

// RateLimiter spaces calls that share a key at least interval apart. Callers
// over the queue limit for their key are rejected instead of delayed.
type RateLimiter struct {
	interval time.Duration
	next     map[string]time.Time
	mu       sync.Mutex
	now      func() time.Time
	log      *slog.Logger
}

func New(interval time.Duration, log *slog.Logger) *RateLimiter {
	return &RateLimiter{
		interval: interval,
		next:     make(map[string]time.Time),
		now:      time.Now,
		log:      log,
	}
}

// Wait blocks until key may proceed or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context, key string) error {
	delay, err := rl.reserve(key)
	if err != nil {
		return err
	}

	if delay <= 0 {
		return nil
	}

	rl.log.DebugContext(ctx, "Rate limiting request",
		"key", key,
		"delay", delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (rl *RateLimiter) reserve(key string) (time.Duration, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if len(rl.next) >= evictThreshold {
		rl.evict(now)
	}

	slot := rl.next[key]
	if slot.Before(now) {
		slot = now
	}
	delay := getDelay(now, slot)

	if delay > maxQueuedPerKey*rl.interval {
		return 0, ErrLimitExceeded
	}

	rl.next[key] = slot.Add(rl.interval)

	return delay, nil
}

func (rl *RateLimiter) evict(now time.Time) {
	for key, next := range rl.next {
		if !next.After(now) {
			delete(rl.next, key)
		}
	}
}

func getDelay(now time.Time, slot time.Time) time.Duration {
	return max(slot.Sub(now), 0)
}
