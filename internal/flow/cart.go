package flow

import (
	"context"

	"github.com/fjglira/storeflow/internal/probe"
	"github.com/fjglira/storeflow/internal/retry"
)

// Cart is the shopping cart page.
type Cart struct {
	env *Env
}

func (Cart) Page() Page { return PageCart }
func (Cart) sealed()    {}

// VerifyItemPresent polls for a line item. When polling times out the check
// falls back to a hard visibility assertion.
func (c Cart) VerifyItemPresent(ctx context.Context) (Cart, error) {
	s := c.env.Session
	out, err := c.env.Actions.Wait(ctx, CountAtLeast(s, CartItem, 1), c.env.Policies.CartItems.Once(),
		retry.Named("cart.items"))
	if err != nil {
		c.env.Log.WithError(err).Debug("cart item poll failed, falling back to assertion")
	}
	if err != nil || !out.Succeeded {
		if err := c.env.mustBeVisible(ctx, PageCart, CartItem, "cart has no line items"); err != nil {
			return Cart{}, err
		}
	}
	return Cart{env: c.env}, nil
}

// HasItems probes for a visible line item.
func (c Cart) HasItems(ctx context.Context) bool {
	return probe.Check(ctx, c.env.Probes, "cart.has_items", Visible(c.env.Session, CartItem))
}

// ProceedToCheckout opens the checkout information form.
func (c Cart) ProceedToCheckout(ctx context.Context) (Checkout, error) {
	s := c.env.Session
	err := c.env.hard(ctx, PageCart, "cart.checkout", click(s, CheckoutButton), Present(s, FirstNameField),
		c.env.Policies.Checkout, retry.RetryWhen(Present(s, CheckoutButton)))
	if err != nil {
		return Checkout{}, err
	}
	return Checkout{env: c.env, phase: PhaseInformation}, nil
}

// ContinueShopping returns to the inventory.
func (c Cart) ContinueShopping(ctx context.Context) (Inventory, error) {
	s := c.env.Session
	err := c.env.hard(ctx, PageCart, "cart.continue_shopping", click(s, ContinueShoppingButton),
		Present(s, InventoryContainer), c.env.Policies.Navigation, retry.RetryWhen(Present(s, ContinueShoppingButton)))
	if err != nil {
		return Inventory{}, err
	}
	return Inventory{env: c.env}, nil
}
