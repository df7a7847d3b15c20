package runner

import (
	"context"
	"strings"

	"github.com/fjglira/storeflow/internal/domain"
	"github.com/fjglira/storeflow/internal/flow"
)

// op applies one scenario step to the current page and returns the next one.
type op func(ctx context.Context, cur flow.Step, st domain.Step, p domain.Params) (flow.Step, error)

var ops = map[string]op{
	"login": on(func(ctx context.Context, l flow.Login, _ domain.Step, p domain.Params) (flow.Step, error) {
		return l.Submit(ctx, p.Username, p.Password)
	}),
	"attempt_login": on(func(ctx context.Context, l flow.Login, _ domain.Step, p domain.Params) (flow.Step, error) {
		return l.AttemptAndStay(ctx, p.Username, p.Password)
	}),
	"expect_error_shown": on(func(ctx context.Context, l flow.Login, _ domain.Step, _ domain.Params) (flow.Step, error) {
		if !l.IsErrorDisplayed(ctx) {
			return nil, domain.Assertf("login", "error shown", "no error message is displayed")
		}
		return l, nil
	}),
	"expect_error": on(func(ctx context.Context, l flow.Login, st domain.Step, p domain.Params) (flow.Step, error) {
		want := p.ExpectedError
		if st.HasValue {
			want = st.Value
		}
		got, err := l.ErrorMessage(ctx)
		if err != nil {
			return nil, &domain.AssertionError{Page: "login", Check: "error message", Message: "error message not readable", Cause: err}
		}
		if strings.TrimSpace(got) != strings.TrimSpace(want) {
			return nil, domain.Assertf("login", "error message", "expected %q, got %q", want, got)
		}
		return l, nil
	}),

	"expect_inventory": on(func(ctx context.Context, i flow.Inventory, _ domain.Step, _ domain.Params) (flow.Step, error) {
		if !i.IsDisplayed(ctx) {
			return nil, domain.Assertf("inventory", "displayed", "inventory page is not displayed")
		}
		return i, nil
	}),
	"verify_inventory": on(func(ctx context.Context, i flow.Inventory, _ domain.Step, _ domain.Params) (flow.Step, error) {
		return i.VerifyLoaded(ctx)
	}),
	"add_to_cart": on(func(ctx context.Context, i flow.Inventory, _ domain.Step, _ domain.Params) (flow.Step, error) {
		return i.ToggleAddToCart(ctx)
	}),
	"remove_from_cart": on(func(ctx context.Context, i flow.Inventory, _ domain.Step, _ domain.Params) (flow.Step, error) {
		return i.ToggleRemoveFromCart(ctx)
	}),
	"expect_add_visible": on(func(ctx context.Context, i flow.Inventory, _ domain.Step, _ domain.Params) (flow.Step, error) {
		if !i.IsAddButtonVisible(ctx) {
			return nil, domain.Assertf("inventory", "add visible", "add to cart control is not visible")
		}
		return i, nil
	}),
	"expect_remove_visible": on(func(ctx context.Context, i flow.Inventory, _ domain.Step, _ domain.Params) (flow.Step, error) {
		if !i.IsRemoveButtonVisible(ctx) {
			return nil, domain.Assertf("inventory", "remove visible", "remove control is not visible")
		}
		return i, nil
	}),
	"expect_badge": on(func(ctx context.Context, i flow.Inventory, st domain.Step, _ domain.Params) (flow.Step, error) {
		got := i.CartBadgeCount(ctx)
		switch {
		case st.HasValue && got != st.Value:
			return nil, domain.Assertf("inventory", "cart badge", "expected %q, got %q", st.Value, got)
		case !st.HasValue && got == "":
			return nil, domain.Assertf("inventory", "cart badge", "no cart badge is displayed")
		}
		return i, nil
	}),
	"probe_badge": on(func(ctx context.Context, i flow.Inventory, _ domain.Step, _ domain.Params) (flow.Step, error) {
		i.CartBadgeCount(ctx)
		return i, nil
	}),
	"go_to_cart": on(func(ctx context.Context, i flow.Inventory, _ domain.Step, _ domain.Params) (flow.Step, error) {
		return i.GoToCart(ctx)
	}),

	"verify_cart": on(func(ctx context.Context, c flow.Cart, _ domain.Step, _ domain.Params) (flow.Step, error) {
		return c.VerifyItemPresent(ctx)
	}),
	"expect_cart_items": on(func(ctx context.Context, c flow.Cart, _ domain.Step, _ domain.Params) (flow.Step, error) {
		if !c.HasItems(ctx) {
			return nil, domain.Assertf("cart", "has items", "cart has no items")
		}
		return c, nil
	}),
	"continue_shopping": on(func(ctx context.Context, c flow.Cart, _ domain.Step, _ domain.Params) (flow.Step, error) {
		return c.ContinueShopping(ctx)
	}),
	"checkout": on(func(ctx context.Context, c flow.Cart, _ domain.Step, _ domain.Params) (flow.Step, error) {
		return c.ProceedToCheckout(ctx)
	}),

	"fill_details": on(func(ctx context.Context, c flow.Checkout, _ domain.Step, p domain.Params) (flow.Step, error) {
		return c.FillDetails(ctx, p.FirstName, p.LastName, p.Zip)
	}),
	"continue": on(func(ctx context.Context, c flow.Checkout, _ domain.Step, _ domain.Params) (flow.Step, error) {
		return c.Continue(ctx)
	}),
	"finish": on(func(ctx context.Context, c flow.Checkout, _ domain.Step, _ domain.Params) (flow.Step, error) {
		return c.Finish(ctx)
	}),
	"cancel": on(func(ctx context.Context, c flow.Checkout, _ domain.Step, _ domain.Params) (flow.Step, error) {
		return c.Cancel(ctx)
	}),

	"verify_complete": on(func(ctx context.Context, c flow.Confirmation, _ domain.Step, _ domain.Params) (flow.Step, error) {
		return c.VerifyComplete(ctx)
	}),
	"expect_message": on(func(ctx context.Context, c flow.Confirmation, st domain.Step, _ domain.Params) (flow.Step, error) {
		want := ConfirmationPhrase
		if st.HasValue {
			want = st.Value
		}
		got, err := c.Message(ctx)
		if err != nil {
			return nil, &domain.AssertionError{Page: "confirmation", Check: "message", Message: "confirmation message not readable", Cause: err}
		}
		if !strings.Contains(got, want) {
			return nil, domain.Assertf("confirmation", "message", "expected %q in %q", want, got)
		}
		return c, nil
	}),
	"expect_text": on(func(ctx context.Context, c flow.Confirmation, st domain.Step, _ domain.Params) (flow.Step, error) {
		if !c.IsDisplayed(ctx) {
			return nil, domain.Assertf("confirmation", "text", "confirmation page is not displayed")
		}
		got, err := c.Text(ctx)
		if err != nil {
			return nil, &domain.AssertionError{Page: "confirmation", Check: "text", Message: "confirmation text not readable", Cause: err}
		}
		if st.HasValue && !strings.Contains(got, st.Value) {
			return nil, domain.Assertf("confirmation", "text", "expected %q in %q", st.Value, got)
		}
		if strings.TrimSpace(got) == "" {
			return nil, domain.Assertf("confirmation", "text", "confirmation text is empty")
		}
		return c, nil
	}),
	"back_home": on(func(ctx context.Context, c flow.Confirmation, _ domain.Step, _ domain.Params) (flow.Step, error) {
		return c.BackHome(ctx)
	}),
}

// on restricts an operation to one page. Applying it anywhere else is an
// illegal transition.
func on[S flow.Step](fn func(ctx context.Context, s S, st domain.Step, p domain.Params) (flow.Step, error)) op {
	return func(ctx context.Context, cur flow.Step, st domain.Step, p domain.Params) (flow.Step, error) {
		s, ok := cur.(S)
		if !ok {
			return nil, &domain.TransitionError{Op: st.Op, From: flow.Describe(cur)}
		}
		return fn(ctx, s, st, p)
	}
}
