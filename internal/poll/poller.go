// Package poll implements bounded-time condition polling. Every wait in
// storeflow is an instance of Poller.Poll.
package poll

import (
	"context"
	"fmt"

	"github.com/fjglira/storeflow/internal/clock"
)

// Condition is a side-effect free predicate over the current UI state.
// An error means "not yet satisfied".
type Condition func(ctx context.Context) (bool, error)

// Poller evaluates conditions on a fixed interval.
type Poller struct {
	clock clock.Clock
}

// New creates a Poller using c, or the wall clock when c is nil.
func New(c clock.Clock) *Poller {
	if c == nil {
		c = clock.Real{}
	}
	return &Poller{clock: c}
}

// Clock returns the poller's time source.
func (p *Poller) Clock() clock.Clock {
	return p.clock
}

// Poll evaluates cond immediately and then every policy.Interval until it
// holds or policy.Timeout has elapsed. Condition errors are swallowed unless
// every evaluation failed with the same kind of error, in which case an
// *ExhaustedError is returned alongside false.
func (p *Poller) Poll(ctx context.Context, cond Condition, policy Policy) (bool, error) {
	if err := policy.Validate(); err != nil {
		return false, err
	}

	start := p.clock.Now()
	var t tally
	for {
		ok, err := cond(ctx)
		t.observe(err)
		if err == nil && ok {
			return true, nil
		}

		if p.clock.Now().Sub(start) >= policy.Timeout {
			break
		}
		if err := p.clock.Sleep(ctx, policy.Interval); err != nil {
			return false, fmt.Errorf("poll interrupted after %d evaluation(s): %w", t.evaluations, err)
		}
	}

	if t.exhausted() {
		return false, &ExhaustedError{Evaluations: t.evaluations, Kind: t.kind, Last: t.last}
	}
	return false, nil
}

// tally tracks evaluation failures across one round.
type tally struct {
	evaluations int
	failures    int
	kind        string
	mixed       bool
	last        error
}

func (t *tally) observe(err error) {
	t.evaluations++
	if err == nil {
		return
	}
	t.failures++
	t.last = err
	k := ErrorKind(err)
	if t.failures == 1 {
		t.kind = k
	} else if k != t.kind {
		t.mixed = true
	}
}

func (t *tally) exhausted() bool {
	return t.evaluations > 0 && t.failures == t.evaluations && !t.mixed
}
