package dmoj

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Rate classes shared by all outbound DMOJ requests.
const (
	RateDefault = "default"
	RateLong    = "long"
)

// RateLimiter enforces a minimum delay between outbound requests, keyed
// by rate class. The scheme is a fixed window, not a token bucket: each
// grant immediately pushes the next allowed time to now + delay, so
// bursts are never permitted and a slow consumer earns no credit.
type RateLimiter struct {
	mu    sync.Mutex
	delay map[string]time.Duration
	next  map[string]time.Time

	// Injectable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a limiter from a map of rate class to minimum
// delay. Classes absent from the map are a configuration error and fail
// on Acquire.
func NewRateLimiter(delays map[string]time.Duration) *RateLimiter {
	delay := make(map[string]time.Duration, len(delays))
	for class, d := range delays {
		delay[class] = d
	}
	return &RateLimiter{
		delay: delay,
		next:  make(map[string]time.Time),
		now:   time.Now,
		sleep: sleepContext,
	}
}

// Acquire blocks until at least the class's delay has elapsed since the
// previous grant for that class. The check-and-update is serialized under
// the mutex, so two concurrent callers for the same class can never be
// granted the same slot; callers on different classes do not block each
// other while one is sleeping.
func (l *RateLimiter) Acquire(ctx context.Context, class string) error {
	l.mu.Lock()
	delay, ok := l.delay[class]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("unknown rate class %q", class)
	}

	for {
		now := l.now()
		next := l.next[class]
		if !next.After(now) {
			l.next[class] = now.Add(delay)
			l.mu.Unlock()
			return nil
		}

		wait := next.Sub(now)
		l.mu.Unlock()
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
		l.mu.Lock()
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
