package crawl

import (
	"context"
	"math/rand/v2"
	"time"
)

// Politeness delay bounds between two products.
const (
	DefaultMinDelay = 500 * time.Millisecond
	DefaultMaxDelay = 2 * time.Second
)

// Delayer pauses the crawl between products.
type Delayer interface {
	// Delay blocks for the pause or until ctx is done.
	Delay(ctx context.Context) error
}

// DelayFunc adapts a function to the Delayer interface.
type DelayFunc func(ctx context.Context) error

// Delay calls f(ctx).
func (f DelayFunc) Delay(ctx context.Context) error {
	return f(ctx)
}

// NoDelay never pauses.
var NoDelay = DelayFunc(func(ctx context.Context) error { return ctx.Err() })

// RandomDelay pauses for a uniformly distributed duration in [Min, Max].
type RandomDelay struct {
	Min time.Duration
	Max time.Duration
}

// NewRandomDelay returns a Delayer pausing between lo and hi.
// A non-positive hi disables the pause.
func NewRandomDelay(lo, hi time.Duration) Delayer {
	if hi <= 0 {
		return NoDelay
	}
	return &RandomDelay{Min: lo, Max: hi}
}

// Next returns the next pause duration.
func (d *RandomDelay) Next() time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + rand.N(d.Max-d.Min+1)
}

// Delay sleeps for Next() unless ctx is done first.
func (d *RandomDelay) Delay(ctx context.Context) error {
	t := time.NewTimer(d.Next())
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
