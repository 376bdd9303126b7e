// Package ratelimit throttles calls to the analytics service per operation
// and backs off after the service answers 429.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 2 * time.Minute
)

// Limiter wraps rate.Limiter with a cooldown window opened by 429 responses
type Limiter struct {
	limiter *rate.Limiter
	name    string

	mu      sync.Mutex
	backoff time.Duration
	until   time.Time
}

// NewLimiter creates a limiter allowing perMinute calls; perMinute <= 0
// disables throttling but keeps the 429 cooldown.
func NewLimiter(name string, perMinute int) *Limiter {
	if perMinute <= 0 {
		return &Limiter{
			limiter: rate.NewLimiter(rate.Inf, 1),
			name:    name,
			backoff: initialBackoff,
		}
	}

	rps := float64(perMinute) / 60.0
	// Burst of up to 5 calls or 1/10th of the per-minute budget
	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}
	if burst > 5 {
		burst = 5
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    name,
		backoff: initialBackoff,
	}
}

// Wait blocks until the cooldown has passed and a token is available
func (l *Limiter) Wait(ctx context.Context) error {
	if d := l.Cooldown(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return l.limiter.Wait(ctx)
}

// Allow reports whether a call may happen now
func (l *Limiter) Allow() bool {
	if l.Cooldown() > 0 {
		return false
	}
	return l.limiter.Allow()
}

// SignalRateLimited opens a cooldown after a 429. The window is the
// server's Retry-After when given, else the doubled backoff.
func (l *Limiter) SignalRateLimited(retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	wait := l.backoff
	l.backoff *= 2
	if l.backoff > maxBackoff {
		l.backoff = maxBackoff
	}
	if retryAfter > 0 {
		wait = retryAfter
	}
	if wait > maxBackoff {
		wait = maxBackoff
	}
	l.until = time.Now().Add(wait)
}

// ResetBackoff clears the backoff after a successful call
func (l *Limiter) ResetBackoff() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.backoff = initialBackoff
	l.until = time.Time{}
}

// Backoff returns the window the next 429 will open
func (l *Limiter) Backoff() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.backoff
}

// Cooldown returns how long calls are still held back after a 429
func (l *Limiter) Cooldown() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.until.IsZero() {
		return 0
	}
	d := time.Until(l.until)
	if d < 0 {
		return 0
	}
	return d
}

// Name returns the limiter name
func (l *Limiter) Name() string {
	return l.name
}

// MultiLimiter holds one limiter per operation
type MultiLimiter struct {
	limiters map[string]*Limiter
	mu       sync.RWMutex
}

// NewMultiLimiter creates an empty set
func NewMultiLimiter() *MultiLimiter {
	return &MultiLimiter{
		limiters: make(map[string]*Limiter),
	}
}

// Add registers a limiter for an operation, replacing any previous one
func (m *MultiLimiter) Add(name string, perMinute int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limiters[name] = NewLimiter(name, perMinute)
}

// Get returns the limiter for an operation, or nil
func (m *MultiLimiter) Get(name string) *Limiter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.limiters[name]
}

// Wait waits on the operation's limiter; unknown operations pass through
func (m *MultiLimiter) Wait(ctx context.Context, name string) error {
	limiter := m.Get(name)
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// SignalRateLimited forwards a 429 to the operation's limiter
func (m *MultiLimiter) SignalRateLimited(name string, retryAfter time.Duration) {
	if limiter := m.Get(name); limiter != nil {
		limiter.SignalRateLimited(retryAfter)
	}
}

// ResetBackoff forwards a success to the operation's limiter
func (m *MultiLimiter) ResetBackoff(name string) {
	if limiter := m.Get(name); limiter != nil {
		limiter.ResetBackoff()
	}
}
