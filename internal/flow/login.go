package flow

import (
	"context"
	"fmt"

	"github.com/fjglira/storeflow/internal/probe"
)

// Login is the entry page.
type Login struct {
	env *Env
}

// Open returns the initial step once the username field had a chance to render.
func Open(ctx context.Context, env *Env) Login {
	ready := probe.Check(ctx, env.Probes, "login.ready", func(ctx context.Context) (bool, error) {
		return env.Actions.Poller().Poll(ctx, Present(env.Session, UsernameField), env.Policies.Ready)
	})
	env.Log.WithField("ready", ready).Debug("login page opened")
	return Login{env: env}
}

func (Login) Page() Page { return PageLogin }
func (Login) sealed()    {}

func (l Login) enter(ctx context.Context, username, password string) error {
	s := l.env.Session
	if err := s.Type(ctx, UsernameField, username); err != nil {
		return fmt.Errorf("enter username: %w", err)
	}
	if err := s.Type(ctx, PasswordField, password); err != nil {
		return fmt.Errorf("enter password: %w", err)
	}
	return nil
}

// Submit enters the credentials and clicks login. It does not decide whether
// the login succeeded; the inventory wait is recorded as a diagnostic.
func (l Login) Submit(ctx context.Context, username, password string) (Inventory, error) {
	if err := l.enter(ctx, username, password); err != nil {
		return Inventory{}, err
	}
	s := l.env.Session
	err := l.env.soft(ctx, "login.submit", click(s, LoginButton),
		Present(s, InventoryContainer), l.env.Policies.Login.Once())
	if err != nil {
		return Inventory{}, err
	}
	return Inventory{env: l.env}, nil
}

// AttemptAndStay performs the same submit for credentials expected to fail.
// A failed login does not navigate, so the Login step is returned.
func (l Login) AttemptAndStay(ctx context.Context, username, password string) (Login, error) {
	if err := l.enter(ctx, username, password); err != nil {
		return Login{}, err
	}
	s := l.env.Session
	settled := Any(Present(s, ErrorMessage), Present(s, InventoryContainer))
	if err := l.env.soft(ctx, "login.attempt", click(s, LoginButton), settled, l.env.Policies.Login.Once()); err != nil {
		return Login{}, err
	}
	return Login{env: l.env}, nil
}

// ErrorMessage reads the login error banner. It fails when no banner is shown.
func (l Login) ErrorMessage(ctx context.Context) (string, error) {
	return l.env.Session.Text(ctx, ErrorMessage)
}

// IsErrorDisplayed probes for the error banner.
func (l Login) IsErrorDisplayed(ctx context.Context) bool {
	return probe.Check(ctx, l.env.Probes, "login.error_displayed", Visible(l.env.Session, ErrorMessage))
}
