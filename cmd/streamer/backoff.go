package main

import (
	"context"
	"math/rand"
	"time"
)

// backoff paces reconnect attempts.
type backoff struct {
	Min    time.Duration
	Max    time.Duration
	Factor float64
	// Jitter is a fraction of the delay (0-1).
	Jitter float64
}

func newBackoff(min, max time.Duration) backoff {
	return backoff{
		Min:    min,
		Max:    max,
		Factor: 2.0,
		Jitter: 0.2,
	}
}

// next returns the delay before the given attempt (1-based).
func (b backoff) next(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	min := b.Min
	if min <= 0 {
		min = 100 * time.Millisecond
	}
	max := b.Max
	if max < min {
		max = min
	}
	factor := b.Factor
	if factor <= 1 {
		factor = 2.0
	}

	wait := min
	for i := 1; i < attempt; i++ {
		next := time.Duration(float64(wait) * factor)
		if next > max {
			wait = max
			break
		}
		wait = next
	}

	if b.Jitter <= 0 {
		return wait
	}
	jitter := b.Jitter
	if jitter > 1 {
		jitter = 1
	}
	delta := float64(wait) * jitter
	return wait - time.Duration(delta) + time.Duration(rand.Float64()*2*delta)
}

// sleep waits for the attempt delay. It reports false when ctx ends first.
func (b backoff) sleep(ctx context.Context, attempt int) bool {
	timer := time.NewTimer(b.next(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
