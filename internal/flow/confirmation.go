package flow

import (
	"context"

	"github.com/fjglira/storeflow/internal/probe"
)

// Confirmation is the order complete page.
type Confirmation struct {
	env *Env
}

func (Confirmation) Page() Page { return PageConfirmation }
func (Confirmation) sealed()    {}

// VerifyComplete asserts the completion header is shown.
func (c Confirmation) VerifyComplete(ctx context.Context) (Confirmation, error) {
	if err := c.env.mustBeVisible(ctx, PageConfirmation, ConfirmationMessage, "order was not completed"); err != nil {
		return Confirmation{}, err
	}
	return Confirmation{env: c.env}, nil
}

// Message reads the completion header. A missing header after finishing an
// order is a failure, so this is a hard read.
func (c Confirmation) Message(ctx context.Context) (string, error) {
	return c.env.Session.Text(ctx, ConfirmationMessage)
}

// Text reads the completion description.
func (c Confirmation) Text(ctx context.Context) (string, error) {
	return c.env.Session.Text(ctx, ConfirmationText)
}

// IsDisplayed checks for the completion header without failing.
func (c Confirmation) IsDisplayed(ctx context.Context) bool {
	return probe.Check(ctx, c.env.Probes, "confirmation.displayed", Visible(c.env.Session, ConfirmationMessage))
}

// BackHome returns to the inventory.
func (c Confirmation) BackHome(ctx context.Context) (Inventory, error) {
	s := c.env.Session
	err := c.env.hard(ctx, PageConfirmation, "confirmation.back_home", click(s, BackHomeButton),
		Present(s, InventoryContainer), c.env.Policies.Navigation.Once())
	if err != nil {
		return Inventory{}, err
	}
	return Inventory{env: c.env}, nil
}
