package summarizer

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter implements token bucket algorithm for rate limiting.
// It keeps a map stage from flooding the model with concurrent calls.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a new RateLimiter with the specified rate and burst capacity.
//
// Example:
//
//	limiter := NewRateLimiter(4.0, 4)  // 4 calls/s with burst of 4
func NewRateLimiter(callsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(callsPerSecond), burst)}
}

// Wait blocks until a token is available or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Limit returns the sustained rate in calls per second.
func (r *RateLimiter) Limit() float64 {
	return float64(r.limiter.Limit())
}
