package flow

import (
	"time"

	"github.com/fjglira/storeflow/internal/poll"
)

// Policies holds the wait and retry policy of every transition.
type Policies struct {
	Ready          poll.Policy
	Login          poll.Policy
	Inventory      poll.Policy
	AddToCart      poll.Policy
	RemoveFromCart poll.Policy
	Badge          poll.Policy
	Navigation     poll.Policy
	CartItems      poll.Policy
	Checkout       poll.Policy
}

// DefaultPolicies mirrors the timings the storefront needs in practice.
func DefaultPolicies() Policies {
	p := func(timeout time.Duration, attempts int) poll.Policy {
		return poll.Policy{Interval: 100 * time.Millisecond, Timeout: timeout, MaxAttempts: attempts}
	}
	return Policies{
		Ready:          p(3*time.Second, 1),
		Login:          p(3*time.Second, 1),
		Inventory:      p(2*time.Second, 1),
		AddToCart:      p(2500*time.Millisecond, 2),
		RemoveFromCart: p(3*time.Second, 2),
		Badge:          p(time.Second, 1),
		Navigation:     p(4*time.Second, 1),
		CartItems:      p(3*time.Second, 1),
		Checkout:       p(3*time.Second, 2),
	}
}
