package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjglira/storeflow/internal/domain"
	"github.com/fjglira/storeflow/internal/driver"
	"github.com/fjglira/storeflow/internal/probe"
	"github.com/fjglira/storeflow/internal/retry"
)

// Phase is the sub-page of the checkout.
type Phase string

const (
	PhaseInformation Phase = "information"
	PhaseOverview    Phase = "overview"
)

// Checkout covers both the information form and the order overview.
type Checkout struct {
	env   *Env
	phase Phase
}

func (Checkout) Page() Page { return PageCheckout }
func (Checkout) sealed()    {}

// Phase reports which checkout sub-page is shown.
func (c Checkout) Phase() Phase { return c.phase }

// FillDetails enters the buyer's details on the information form.
func (c Checkout) FillDetails(ctx context.Context, firstName, lastName, zip string) (Checkout, error) {
	if c.phase != PhaseInformation {
		return Checkout{}, illegal("fill_details", c)
	}
	s := c.env.Session
	fields := []struct {
		name  string
		ref   driver.ElementRef
		value string
	}{
		{"first name", FirstNameField, firstName},
		{"last name", LastNameField, lastName},
		{"zip code", ZipCodeField, zip},
	}
	for _, f := range fields {
		if err := s.Type(ctx, f.ref, f.value); err != nil {
			return Checkout{}, fmt.Errorf("enter %s: %w", f.name, err)
		}
	}
	return Checkout{env: c.env, phase: PhaseInformation}, nil
}

// Continue submits the information form and moves to the overview.
func (c Checkout) Continue(ctx context.Context) (Checkout, error) {
	if c.phase != PhaseInformation {
		return Checkout{}, illegal("continue", c)
	}
	s := c.env.Session
	err := c.env.hard(ctx, PageCheckout, "checkout.continue", click(s, ContinueButton), Present(s, FinishButton),
		c.env.Policies.Checkout, retry.RetryWhen(Present(s, ContinueButton)))
	if err != nil {
		return Checkout{}, c.withFormError(ctx, err)
	}
	return Checkout{env: c.env, phase: PhaseOverview}, nil
}

// Finish places the order.
func (c Checkout) Finish(ctx context.Context) (Confirmation, error) {
	if c.phase != PhaseOverview {
		return Confirmation{}, illegal("finish", c)
	}
	s := c.env.Session
	err := c.env.hard(ctx, PageCheckout, "checkout.finish", click(s, FinishButton), Present(s, ConfirmationMessage),
		c.env.Policies.Checkout, retry.RetryWhen(Present(s, FinishButton)))
	if err != nil {
		return Confirmation{}, err
	}
	return Confirmation{env: c.env}, nil
}

// Cancel abandons the checkout and returns to the cart.
func (c Checkout) Cancel(ctx context.Context) (Cart, error) {
	s := c.env.Session
	err := c.env.hard(ctx, PageCheckout, "checkout.cancel", click(s, CancelButton), Present(s, CheckoutButton),
		c.env.Policies.Navigation, retry.RetryWhen(Present(s, CancelButton)))
	if err != nil {
		return Cart{}, err
	}
	return Cart{env: c.env}, nil
}

// withFormError attaches the form's validation message to a failed continue.
func (c Checkout) withFormError(ctx context.Context, err error) error {
	var ae *domain.AssertionError
	if !errors.As(err, &ae) {
		return err
	}
	s := c.env.Session
	msg, ok := probe.Do(c.env.Probes, "checkout.form_error", func() (string, error) {
		return s.Text(ctx, ErrorMessage)
	})
	if ok && msg != "" {
		ae.Message = fmt.Sprintf("%s: %s", ae.Message, msg)
	}
	return ae
}
