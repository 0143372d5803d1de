package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket that keeps chat requests to a provider under
// a fixed number per window. The bucket starts full, so a fresh session can
// burst up to maxRequests before waiting.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a new rate limiter
// maxRequests: maximum number of requests allowed
// perDuration: time window for maxRequests (e.g., 60 requests per minute)
func New(maxRequests int, perDuration time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = 60 // Default: 60 requests
	}
	if perDuration <= 0 {
		perDuration = time.Minute // Default: per minute
	}

	every := perDuration / time.Duration(maxRequests)
	if every <= 0 {
		every = time.Nanosecond
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(every), maxRequests),
	}
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil || rl.limiter == nil {
		return ctx.Err()
	}
	if err := rl.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}
	return nil
}

// Limit reports the refill rate in requests per second.
func (rl *RateLimiter) Limit() float64 {
	if rl == nil || rl.limiter == nil {
		return 0
	}
	return float64(rl.limiter.Limit())
}
