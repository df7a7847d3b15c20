package flow

import (
	"context"

	"github.com/fjglira/storeflow/internal/driver"
	"github.com/fjglira/storeflow/internal/probe"
	"github.com/fjglira/storeflow/internal/retry"
)

// Inventory is the products page. Add and remove are self-transitions.
type Inventory struct {
	env *Env
}

func (Inventory) Page() Page { return PageInventory }
func (Inventory) sealed()    {}

// VerifyLoaded waits for the container and a backpack control. A page that
// never becomes usable fails the scenario.
func (i Inventory) VerifyLoaded(ctx context.Context) (Inventory, error) {
	s := i.env.Session
	loaded := All(
		Visible(s, InventoryContainer),
		Any(Present(s, AddToCartBackpack), Present(s, RemoveBackpack)),
	)
	if err := i.env.hard(ctx, PageInventory, "inventory.loaded", nil, loaded, i.env.Policies.Inventory); err != nil {
		return Inventory{}, err
	}
	return Inventory{env: i.env}, nil
}

// ToggleAddToCart clicks add and waits for the control to swap to remove,
// retrying the click once with a longer wait. Remove must be visible at the end.
func (i Inventory) ToggleAddToCart(ctx context.Context) (Inventory, error) {
	s := i.env.Session
	if i.IsRemoveButtonVisible(ctx) {
		i.env.Log.Debug("backpack already in cart")
		return Inventory{env: i.env}, nil
	}
	if err := i.env.mustBeVisible(ctx, PageInventory, AddToCartBackpack, "add control must be shown before adding"); err != nil {
		return Inventory{}, err
	}

	out, err := i.env.Actions.Run(ctx, click(s, AddToCartBackpack), Present(s, RemoveBackpack),
		i.env.Policies.AddToCart, retry.Named("inventory.add"))
	if err != nil {
		return Inventory{}, err
	}
	i.env.Probes.Note("inventory.add", out.Succeeded, attempts(out))

	if err := i.env.mustBeVisible(ctx, PageInventory, RemoveBackpack, "item was not added to the cart"); err != nil {
		return Inventory{}, err
	}
	return Inventory{env: i.env}, nil
}

// ToggleRemoveFromCart removes the backpack. When it is not in the cart yet it
// is added first, so the call never fails on an empty cart. The badge is
// expected to disappear afterwards, but a lingering badge is only recorded.
func (i Inventory) ToggleRemoveFromCart(ctx context.Context) (Inventory, error) {
	cur := i
	if !i.IsRemoveButtonVisible(ctx) {
		i.env.Log.Debug("backpack not in cart, adding before removal")
		added, err := i.ToggleAddToCart(ctx)
		if err != nil {
			return Inventory{}, err
		}
		cur = added
	}

	s := cur.env.Session
	out, err := cur.env.Actions.Run(ctx, click(s, RemoveBackpack), Present(s, AddToCartBackpack),
		cur.env.Policies.RemoveFromCart,
		retry.RetryWhen(Visible(s, RemoveBackpack)),
		retry.Named("inventory.remove"))
	if err != nil {
		return Inventory{}, err
	}
	cur.env.Probes.Note("inventory.remove", out.Succeeded, attempts(out))

	if err := cur.env.mustBeVisible(ctx, PageInventory, AddToCartBackpack, "item was not removed from the cart"); err != nil {
		return Inventory{}, err
	}

	if err := cur.env.soft(ctx, "inventory.badge_cleared", nil, Absent(s, CartBadge), cur.env.Policies.Badge.Once()); err != nil {
		cur.env.Probes.Note("inventory.badge_cleared", false, probe.Category(err))
	}
	return Inventory{env: cur.env}, nil
}

// CartBadgeCount reads the badge text, or "" when there is no badge.
func (i Inventory) CartBadgeCount(ctx context.Context) string {
	s := i.env.Session
	count, _ := probe.Do(i.env.Probes, "inventory.badge_count", func() (string, error) {
		shown, err := Present(s, CartBadge)(ctx)
		if err != nil || !shown {
			return "", err
		}
		return s.Text(ctx, CartBadge)
	})
	return count
}

// IsCartBadgeDisplayed probes for the cart badge.
func (i Inventory) IsCartBadgeDisplayed(ctx context.Context) bool {
	return probe.Check(ctx, i.env.Probes, "inventory.badge_displayed", Present(i.env.Session, CartBadge))
}

// IsAddButtonVisible probes for the add control.
func (i Inventory) IsAddButtonVisible(ctx context.Context) bool {
	return i.isVisible(ctx, "inventory.add_visible", AddToCartBackpack)
}

// IsRemoveButtonVisible probes for the remove control.
func (i Inventory) IsRemoveButtonVisible(ctx context.Context) bool {
	return i.isVisible(ctx, "inventory.remove_visible", RemoveBackpack)
}

// IsDisplayed probes for the inventory container.
func (i Inventory) IsDisplayed(ctx context.Context) bool {
	return i.isVisible(ctx, "inventory.displayed", InventoryContainer)
}

func (i Inventory) isVisible(ctx context.Context, name string, ref driver.ElementRef) bool {
	return probe.Check(ctx, i.env.Probes, name, Visible(i.env.Session, ref))
}

// GoToCart opens the cart and waits, bounded, for the location to change.
func (i Inventory) GoToCart(ctx context.Context) (Cart, error) {
	s := i.env.Session
	err := i.env.soft(ctx, "inventory.go_to_cart", click(s, CartLink),
		URLContains(s, CartURLFragment), i.env.Policies.Navigation.Once())
	if err != nil {
		return Cart{}, err
	}
	return Cart{env: i.env}, nil
}
