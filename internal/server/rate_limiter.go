// Package server throttles each connection with a token bucket so one noisy
// client cannot flood the hub.
package server

import (
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter grants burst messages per refill interval, refilling
// continuously.
type rateLimiter struct {
	limiter *rate.Limiter
	now     func() time.Time
}

func newRateLimiter(burst int, interval time.Duration) *rateLimiter {
	return newRateLimiterWithClock(burst, interval, time.Now)
}

func newRateLimiterWithClock(burst int, interval time.Duration, now func() time.Time) *rateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if interval <= 0 {
		interval = time.Second
	}

	limit := rate.Limit(float64(burst) / interval.Seconds())
	return &rateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		now:     now,
	}
}

func (rl *rateLimiter) allow() bool {
	return rl.limiter.AllowN(rl.now(), 1)
}
