package metadata

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval spaces requests to publisher websites.
const DefaultInterval = time.Second

// Throttle keeps at least interval between the starts of consecutive callers.
// A nil Throttle never waits.
type Throttle struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewThrottle returns a Throttle with the given spacing. A non-positive
// interval returns nil.
func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		return nil
	}
	return &Throttle{interval: interval}
}

// Wait blocks until the caller may start or ctx ends. The slot is taken only
// when Wait returns nil, so a cancelled caller does not delay the next one.
func (t *Throttle) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t == nil {
			return nil
		}
		t.mu.Lock()
		now := time.Now()
		wait := t.interval - now.Sub(t.last)
		if t.last.IsZero() || wait <= 0 {
			t.last = now
			t.mu.Unlock()
			return nil
		}
		t.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
