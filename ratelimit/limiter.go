// Package ratelimit provides a token-bucket rate limiter backed by
// golang.org/x/time/rate, used to gate dispatches.
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps a token-bucket limiter that decides whether a dispatch may
// proceed.
type Limiter struct {
	lim *rate.Limiter
}

// NewLimiter creates a Limiter that permits rps dispatches per second with
// the given burst size.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

// NewWindowLimiter creates a Limiter allowing n dispatches per window, with
// a burst of n.
func NewWindowLimiter(n int, window time.Duration) *Limiter {
	return &Limiter{lim: rate.NewLimiter(rate.Every(window/time.Duration(max(n, 1))), n)}
}

// Allow reports whether a single dispatch may proceed.
func (l *Limiter) Allow() bool {
	return l.lim.Allow()
}

// Burst returns the maximum number of dispatches allowed at once.
func (l *Limiter) Burst() int {
	return l.lim.Burst()
}
