package config

import (
	"fmt"
	"time"

	"github.com/fjglira/storeflow/internal/driver"
	"github.com/fjglira/storeflow/internal/flow"
	"github.com/fjglira/storeflow/internal/poll"
)

// Driver kinds.
const (
	DriverSimulated = "simulated"
	DriverChrome    = "chrome"
)

// Policy parses the policy. The result is validated.
func (pc PolicyConfig) Policy() (poll.Policy, error) {
	interval, err := time.ParseDuration(pc.Interval)
	if err != nil {
		return poll.Policy{}, fmt.Errorf("interval: %w", err)
	}
	timeout, err := time.ParseDuration(pc.Timeout)
	if err != nil {
		return poll.Policy{}, fmt.Errorf("timeout: %w", err)
	}
	p := poll.Policy{Interval: interval, Timeout: timeout, MaxAttempts: pc.MaxAttempts}
	if err := p.Validate(); err != nil {
		return poll.Policy{}, err
	}
	return p, nil
}

func (pc *PoliciesConfig) named() map[string]PolicyConfig {
	return map[string]PolicyConfig{
		"ready":            pc.Ready,
		"login":            pc.Login,
		"inventory":        pc.Inventory,
		"add_to_cart":      pc.AddToCart,
		"remove_from_cart": pc.RemoveFromCart,
		"badge":            pc.Badge,
		"navigation":       pc.Navigation,
		"cart_items":       pc.CartItems,
		"checkout":         pc.Checkout,
	}
}

// FlowPolicies converts the policies section for the flow package.
func (c *Config) FlowPolicies() (flow.Policies, error) {
	var out flow.Policies
	targets := map[string]*poll.Policy{
		"ready":            &out.Ready,
		"login":            &out.Login,
		"inventory":        &out.Inventory,
		"add_to_cart":      &out.AddToCart,
		"remove_from_cart": &out.RemoveFromCart,
		"badge":            &out.Badge,
		"navigation":       &out.Navigation,
		"cart_items":       &out.CartItems,
		"checkout":         &out.Checkout,
	}
	for name, pc := range c.Policies.named() {
		p, err := pc.Policy()
		if err != nil {
			return flow.Policies{}, fmt.Errorf("policies.%s: %w", name, err)
		}
		*targets[name] = p
	}
	return out, nil
}

// DriverSession converts the session section for driver implementations.
func (c *Config) DriverSession() driver.SessionConfig {
	headless := true
	if c.Session.Headless != nil {
		headless = *c.Session.Headless
	}
	return driver.SessionConfig{
		BaseURL:       c.Session.BaseURL,
		RemoteURL:     c.Session.RemoteURL,
		Headless:      headless,
		WindowWidth:   c.Session.WindowWidth,
		WindowHeight:  c.Session.WindowHeight,
		ActionTimeout: Duration(c.Session.ActionTimeout),
	}
}

// Duration parses a validated duration string; invalid values read as zero.
func Duration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
