package relay

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// RateLimitConfig configures a token bucket.
type RateLimitConfig struct {
	RequestsPerMinute int // Sustained rate (default: 60)
	BurstSize         int // Bucket capacity (default: RequestsPerMinute)
}

// NewRateLimiter creates a full bucket.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60
	}
	burst := float64(cfg.BurstSize)
	if burst <= 0 {
		burst = rpm
	}

	return &RateLimiter{
		tokens:     burst,
		maxTokens:  burst,
		refillRate: rpm / 60.0,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is taken or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait := r.reserve()
		if wait == 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TryAcquire takes a token if one is available.
func (r *RateLimiter) TryAcquire() bool {
	return r.reserve() == 0
}

// reserve takes a token and returns zero, or returns how long until one is available.
func (r *RateLimiter) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1 {
		r.tokens--
		return 0
	}

	deficit := 1 - r.tokens
	wait := time.Duration(deficit / r.refillRate * float64(time.Second))
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait
}

// refill must be called with r.mu held.
func (r *RateLimiter) refill() {
	now := time.Now()
	r.tokens += now.Sub(r.lastRefill).Seconds() * r.refillRate
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
	r.lastRefill = now
}

// Available returns the current number of tokens.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return r.tokens
}

// RateLimitedCaller throttles a Caller with one bucket per credential, since provider quotas
// are metered per key. A throttled key does not delay calls on the provider's other keys.
type RateLimitedCaller struct {
	caller Caller
	config RateLimitConfig

	mu       sync.Mutex
	limiters map[string]*RateLimiter
}

// NewRateLimitedCaller creates a new rate-limited caller.
func NewRateLimitedCaller(caller Caller, cfg RateLimitConfig) *RateLimitedCaller {
	return &RateLimitedCaller{
		caller:   caller,
		config:   cfg,
		limiters: make(map[string]*RateLimiter),
	}
}

// Call implements Caller.
func (c *RateLimitedCaller) Call(ctx context.Context, req CallRequest) (string, error) {
	if err := c.Limiter(req.Credential).Wait(ctx); err != nil {
		return "", err
	}
	return c.caller.Call(ctx, req)
}

// Limiter returns the bucket for credential, creating it on first use.
func (c *RateLimitedCaller) Limiter(credential string) *RateLimiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.limiters[credential]
	if !ok {
		l = NewRateLimiter(c.config)
		c.limiters[credential] = l
	}
	return l
}
