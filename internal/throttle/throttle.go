// Package throttle spaces out requests and writes by a fixed delay. There is
// no backoff: a 429 is treated like any other failed page.
package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type Throttle struct {
	lim   *rate.Limiter
	delay time.Duration
}

// New returns a throttle that lets the first call through immediately and
// each following call once delay has passed since the previous one.
func New(delay time.Duration) *Throttle {
	if delay <= 0 {
		return &Throttle{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Throttle{lim: rate.NewLimiter(rate.Every(delay), 1), delay: delay}
}

// Wait blocks until the next slot or ctx is done. A nil throttle never blocks.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t.lim.Wait(ctx)
}

func (t *Throttle) Delay() time.Duration {
	if t == nil {
		return 0
	}
	return t.delay
}

// Clamp applies the scripts' floor on operator-supplied delays.
func Clamp(d, min time.Duration) time.Duration {
	if d < min {
		return min
	}
	return d
}
