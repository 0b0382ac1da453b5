package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// errLimiterStopped is returned by Acquire once Stop has been called.
var errLimiterStopped = errors.New("llm: rate limiter stopped")

// rpsLimiter is a token bucket refilled by a ticker goroutine. It allows at
// most rps acquisitions per second after an initial burst.
type rpsLimiter struct {
	tokens chan struct{}
	done   chan struct{}
	once   sync.Once
}

// newRPSLimiter returns nil when rps <= 0, which disables limiting.
func newRPSLimiter(rps float64, burst int) *rpsLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	l := &rpsLimiter{
		tokens: make(chan struct{}, burst),
		done:   make(chan struct{}),
	}
	for i := 0; i < burst; i++ {
		l.tokens <- struct{}{}
	}

	period := time.Duration(float64(time.Second) / rps)
	if period <= 0 {
		period = time.Millisecond
	}
	go l.refill(period)
	return l
}

func (l *rpsLimiter) refill(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			select {
			case l.tokens <- struct{}{}:
			default: // full
			}
		case <-l.done:
			return
		}
	}
}

// Acquire blocks until a token is available, ctx is done, or the limiter stops.
func (l *rpsLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case <-l.done:
		return errLimiterStopped
	default:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return errLimiterStopped
	case <-l.tokens:
		return nil
	}
}

// Stop ends the refill goroutine. Safe to call more than once.
func (l *rpsLimiter) Stop() {
	if l == nil {
		return
	}
	l.once.Do(func() { close(l.done) })
}
