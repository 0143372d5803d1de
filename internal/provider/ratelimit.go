package provider

import (
	"context"
	"time"

	"github.com/maximbilan/llmchat/internal/ratelimit"
)

// rateLimited delays Generate calls so a provider sees at most a fixed number
// of requests per window.
type rateLimited struct {
	next    Provider
	limiter *ratelimit.RateLimiter
}

// RateLimited wraps p with a token bucket allowing requests per window.
// Non-positive requests return p unchanged.
func RateLimited(p Provider, requests int, window time.Duration) Provider {
	if requests <= 0 {
		return p
	}
	return &rateLimited{
		next:    p,
		limiter: ratelimit.New(requests, window),
	}
}

func (r *rateLimited) Generate(ctx context.Context, messages []Message) (Message, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Message{}, err
	}
	return r.next.Generate(ctx, messages)
}
