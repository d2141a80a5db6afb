// Package ratelimit enforces a minimum spacing between consecutive outbound
// provider calls. One limiter is shared per process so parallel scans cannot
// exceed a provider family's tolerated request rate.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const defaultInterval = time.Second

// Limiter blocks the caller until the spacing since the previous call has
// elapsed. It does not queue or retry.
type Limiter struct {
	limiter *rate.Limiter
}

// New builds a limiter with the given minimum interval between calls.
func New(interval time.Duration) *Limiter {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is allowed or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
