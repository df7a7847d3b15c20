// Package runner executes one scenario against one session and turns the
// result into an Outcome. It never returns an error to its caller: hard
// failures, illegal transitions and panics all end up in the Outcome.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/storeflow/internal/clock"
	"github.com/fjglira/storeflow/internal/domain"
	"github.com/fjglira/storeflow/internal/driver"
	"github.com/fjglira/storeflow/internal/flow"
	"github.com/fjglira/storeflow/internal/metrics"
	"github.com/fjglira/storeflow/internal/poll"
	"github.com/fjglira/storeflow/internal/probe"
	"github.com/fjglira/storeflow/internal/retry"
)

// DefaultOpenBackoff is the pause before retrying a reset session open.
const DefaultOpenBackoff = 1200 * time.Millisecond

// Options configures a Runner. Zero values fall back to defaults.
type Options struct {
	Session  driver.SessionConfig
	Policies *flow.Policies
	Backoff  time.Duration
	Clock    clock.Clock
	Logger   logrus.FieldLogger
	Metrics  *metrics.Collector
}

// Runner is stateless between runs and may be shared by concurrent scenarios.
type Runner struct {
	opener   driver.Opener
	session  driver.SessionConfig
	policies flow.Policies
	backoff  time.Duration
	clock    clock.Clock
	log      logrus.FieldLogger
	metrics  *metrics.Collector
}

// New creates a Runner that opens its sessions through opener.
func New(opener driver.Opener, opts Options) *Runner {
	r := &Runner{
		opener:   opener,
		session:  opts.Session,
		policies: flow.DefaultPolicies(),
		backoff:  opts.Backoff,
		clock:    opts.Clock,
		log:      opts.Logger,
		metrics:  opts.Metrics,
	}
	if opts.Policies != nil {
		r.policies = *opts.Policies
	}
	if r.backoff <= 0 {
		r.backoff = DefaultOpenBackoff
	}
	if r.clock == nil {
		r.clock = clock.Real{}
	}
	if r.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		r.log = l
	}
	return r
}

// Run executes a scenario. The session is closed on every path.
func (r *Runner) Run(ctx context.Context, sc domain.Scenario) (out domain.Outcome) {
	start := r.clock.Now()
	out = domain.Outcome{ScenarioID: sc.ID, Name: sc.Name, Kind: sc.Kind, StartedAt: start}
	probes := probe.NewRecorder(r.clock)
	log := r.log.WithFields(logrus.Fields{"scenario": sc.ID, "kind": sc.Kind})

	var cur flow.Step
	defer func() {
		if p := recover(); p != nil {
			out.Error = &panicError{value: p}
			log.WithField("panic", p).Error("scenario panicked")
		}
		out.FinalPage = pageName(cur)
		out.Diagnostics = probes.Results()
		out.Duration = r.clock.Now().Sub(start)
		if out.Error != nil {
			out.ErrorText = out.Error.Error()
			out.ErrorKind = probe.Category(out.Error)
		}
		r.metrics.ObserveOutcome(out)
		log.WithFields(logrus.Fields{
			"passed":   out.Passed(),
			"page":     out.FinalPage,
			"duration": out.Duration,
		}).Info("scenario finished")
	}()

	steps, err := r.steps(sc)
	if err != nil {
		out.Error = err
		return out
	}

	sess, err := r.acquire(ctx, log)
	if err != nil {
		out.Error = err
		return out
	}
	defer release(ctx, sess, log)
	out.SessionID = sess.ID()

	env := flow.NewEnv(sess, retry.NewRunner(poll.New(r.clock), log), probes, r.policies, log)
	cur = flow.Open(ctx, env)
	for i, st := range steps {
		log.WithFields(logrus.Fields{"op": st.Op, "page": flow.Describe(cur)}).Debug("applying step")
		next, err := ops[st.Op](ctx, cur, st, sc.Params)
		if err != nil {
			out.Error = fmt.Errorf("step %d (%s): %w", i+1, st, err)
			return out
		}
		cur = next
	}

	if conf, ok := cur.(flow.Confirmation); ok {
		probe.Do(probes, "confirmation.message", func() (string, error) {
			return conf.Message(ctx)
		})
	}
	return out
}

// steps resolves the step list: explicit steps win over the kind's.
func (r *Runner) steps(sc domain.Scenario) ([]domain.Step, error) {
	steps := sc.Steps
	if len(steps) == 0 {
		var ok bool
		if steps, ok = (Catalog{}).Steps(sc.Kind); !ok {
			return nil, fmt.Errorf("scenario %s: unknown kind %q and no steps", sc.ID, sc.Kind)
		}
	}
	for _, st := range steps {
		if _, ok := ops[st.Op]; !ok {
			return nil, fmt.Errorf("scenario %s: unknown operation %q", sc.ID, st.Op)
		}
	}
	return steps, nil
}

func pageName(s flow.Step) string {
	if s == nil {
		return ""
	}
	return flow.Describe(s)
}

type panicError struct {
	value any
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }

func (e *panicError) Category() string { return "panic" }
