// Package retry wraps driver actions with a post-condition and a bounded
// retry policy.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/storeflow/internal/poll"
)

// Action is one driver interaction. Callers must make it safe to repeat.
type Action func(ctx context.Context) error

// Outcome describes one Run. It is always produced, even on failure.
type Outcome struct {
	Succeeded    bool
	AttemptsUsed int
	Elapsed      time.Duration
}

// Option customises a single Run.
type Option func(*options)

type options struct {
	name      string
	retryWhen poll.Condition
}

// Named labels the run in log output.
func Named(name string) Option {
	return func(o *options) { o.name = name }
}

// RetryWhen guards every retry: the action is only re-executed when cond
// holds. A false or failing guard turns the retry round into a plain wait.
func RetryWhen(cond poll.Condition) Option {
	return func(o *options) { o.retryWhen = cond }
}

// Runner executes actions under a retry policy.
type Runner struct {
	poller *poll.Poller
	log    logrus.FieldLogger
}

// NewRunner creates a Runner.
func NewRunner(poller *poll.Poller, log logrus.FieldLogger) *Runner {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Runner{poller: poller, log: log}
}

// Poller returns the underlying poller.
func (r *Runner) Poller() *poll.Poller {
	return r.poller
}

// Run executes act and polls until. When until is not met within a round and
// attempts remain, act runs once more and the next round uses a widened
// timeout. An unmet post-condition is not an error: Succeeded is false and the
// caller decides whether that is fatal. Errors from act and poll exhaustion
// are returned together with the outcome.
func (r *Runner) Run(ctx context.Context, act Action, until poll.Condition, policy poll.Policy, opts ...Option) (Outcome, error) {
	o := options{name: "action"}
	for _, opt := range opts {
		opt(&o)
	}
	if err := policy.Validate(); err != nil {
		return Outcome{}, err
	}

	clk := r.poller.Clock()
	start := clk.Now()
	var out Outcome
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		out.AttemptsUsed = attempt
		log := r.log.WithFields(logrus.Fields{"action": o.name, "attempt": attempt})

		if act != nil && r.shouldAct(ctx, attempt, o.retryWhen) {
			if err := act(ctx); err != nil {
				out.Elapsed = clk.Now().Sub(start)
				return out, fmt.Errorf("%s attempt %d: %w", o.name, attempt, err)
			}
		}

		round := policy.ForRound(attempt)
		ok, err := r.poller.Poll(ctx, until, round)
		if err != nil {
			out.Elapsed = clk.Now().Sub(start)
			return out, fmt.Errorf("%s attempt %d: %w", o.name, attempt, err)
		}
		if ok {
			out.Succeeded = true
			out.Elapsed = clk.Now().Sub(start)
			log.Debug("post-condition met")
			return out, nil
		}
		log.WithField("timeout", round.Timeout).Debug("post-condition not met")
	}

	out.Elapsed = clk.Now().Sub(start)
	r.log.WithFields(logrus.Fields{"action": o.name, "attempts": out.AttemptsUsed}).
		Info("post-condition still unmet after all attempts")
	return out, nil
}

// Wait is Run without an action: a gated, possibly multi-round wait.
func (r *Runner) Wait(ctx context.Context, until poll.Condition, policy poll.Policy, opts ...Option) (Outcome, error) {
	return r.Run(ctx, nil, until, policy, opts...)
}

func (r *Runner) shouldAct(ctx context.Context, attempt int, guard poll.Condition) bool {
	if attempt == 1 || guard == nil {
		return true
	}
	ok, err := guard(ctx)
	return err == nil && ok
}
