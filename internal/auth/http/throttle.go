package http

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// loginLimiterEntry holds a rate limiter and last access time for cleanup.
type loginLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// LoginThrottle holds one token bucket per client IP for the login endpoint.
type LoginThrottle struct {
	limiters sync.Map // map[string]*loginLimiterEntry
	rps      float64
	burst    int
	now      func() time.Time
}

// NewLoginThrottle creates a LoginThrottle allowing rps attempts per second
// per IP with the given burst.
func NewLoginThrottle(rps float64, burst int) *LoginThrottle {
	return &LoginThrottle{
		rps:   rps,
		burst: burst,
		now:   time.Now,
	}
}

// Allow consumes one attempt for ip. When the bucket is empty it returns
// false and the delay until the next attempt is allowed.
func (t *LoginThrottle) Allow(ip string) (bool, time.Duration) {
	now := t.now()
	limiter := t.getLimiter(ip, now)

	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (t *LoginThrottle) getLimiter(ip string, now time.Time) *rate.Limiter {
	if val, ok := t.limiters.Load(ip); ok {
		entry := val.(*loginLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &loginLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(t.rps), t.burst),
		lastAccess: now,
	}
	actual, _ := t.limiters.LoadOrStore(ip, entry)
	return actual.(*loginLimiterEntry).limiter
}

// Sweep removes limiters not used since threshold.
func (t *LoginThrottle) Sweep(threshold time.Time) {
	t.limiters.Range(func(key, value any) bool {
		entry := value.(*loginLimiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			t.limiters.Delete(key)
		}
		return true
	})
}

// Run sweeps limiters idle for an hour every interval until ctx is done.
func (t *LoginThrottle) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.Sweep(t.now().Add(-time.Hour))
		}
	}
}
