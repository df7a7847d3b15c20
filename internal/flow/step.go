// Package flow models a storefront journey as immutable page steps. Each
// transition returns a freshly built step; steps never mutate in place.
package flow

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/storeflow/internal/domain"
	"github.com/fjglira/storeflow/internal/driver"
	"github.com/fjglira/storeflow/internal/poll"
	"github.com/fjglira/storeflow/internal/probe"
	"github.com/fjglira/storeflow/internal/retry"
)

// Page tags a Step.
type Page string

const (
	PageLogin        Page = "login"
	PageInventory    Page = "inventory"
	PageCart         Page = "cart"
	PageCheckout     Page = "checkout"
	PageConfirmation Page = "confirmation"
)

// Step is one of Login, Inventory, Cart, Checkout or Confirmation.
type Step interface {
	Page() Page
	sealed()
}

// Env is everything a step needs to talk to its session. It is shared by all
// steps of one scenario and is never modified after construction.
type Env struct {
	Session  driver.Session
	Actions  *retry.Runner
	Probes   *probe.Recorder
	Policies Policies
	Log      logrus.FieldLogger
}

// NewEnv wires an Env for one session.
func NewEnv(s driver.Session, actions *retry.Runner, probes *probe.Recorder, policies Policies, log logrus.FieldLogger) *Env {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Env{
		Session:  s,
		Actions:  actions,
		Probes:   probes,
		Policies: policies,
		Log:      log.WithField("session", s.ID()),
	}
}

// soft runs a retryable action whose unmet post-condition is only recorded.
func (e *Env) soft(ctx context.Context, name string, act retry.Action, until poll.Condition, policy poll.Policy, opts ...retry.Option) error {
	out, err := e.Actions.Run(ctx, act, until, policy, append(opts, retry.Named(name))...)
	if err != nil {
		return err
	}
	e.Probes.Note(name, out.Succeeded, attempts(out))
	return nil
}

// hard runs a retryable action whose unmet post-condition fails the step.
func (e *Env) hard(ctx context.Context, page Page, name string, act retry.Action, until poll.Condition, policy poll.Policy, opts ...retry.Option) error {
	out, err := e.Actions.Run(ctx, act, until, policy, append(opts, retry.Named(name))...)
	if err != nil {
		return err
	}
	if !out.Succeeded {
		return domain.Assertf(string(page), name, "post-condition not met after %s", attempts(out))
	}
	return nil
}

// mustBeVisible is a one-shot hard visibility assertion.
func (e *Env) mustBeVisible(ctx context.Context, page Page, ref driver.ElementRef, why string) error {
	visible, err := e.Session.IsVisible(ctx, ref)
	if err != nil {
		return &domain.AssertionError{Page: string(page), Check: ref.String() + " visible", Message: why, Cause: err}
	}
	if !visible {
		return domain.Assertf(string(page), ref.String()+" visible", "%s", why)
	}
	return nil
}

func attempts(out retry.Outcome) string {
	return fmt.Sprintf("%d attempt(s) in %s", out.AttemptsUsed, out.Elapsed)
}

func illegal(op string, from Step) error {
	return &domain.TransitionError{Op: op, From: Describe(from)}
}

// Describe names a step including its sub-phase.
func Describe(s Step) string {
	if s == nil {
		return "none"
	}
	if c, ok := s.(Checkout); ok {
		return fmt.Sprintf("%s/%s", c.Page(), c.Phase())
	}
	return string(s.Page())
}
