package runner

import (
	"sort"

	"github.com/fjglira/storeflow/internal/domain"
)

// ConfirmationPhrase is the completion header the storefront shows after an order.
const ConfirmationPhrase = "Thank you for your order!"

var (
	add    = domain.S("add_to_cart")
	remove = domain.S("remove_from_cart")
	login  = []domain.Step{domain.S("login"), domain.S("verify_inventory")}
)

func walk(parts ...[]domain.Step) []domain.Step {
	var out []domain.Step
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// kinds are the predefined journeys. Each is a plain step list and can be
// reproduced with custom steps.
var kinds = map[string][]domain.Step{
	"valid_login": {domain.S("login"), domain.S("expect_inventory")},
	"invalid_login": {
		domain.S("attempt_login"),
		domain.S("expect_error_shown"),
		domain.S("expect_error"),
	},
	"add_to_cart": walk(login, []domain.Step{
		add,
		domain.S("expect_remove_visible"),
		domain.SV("expect_badge", "1"),
	}),
	"remove_from_cart": walk(login, []domain.Step{
		add,
		remove,
		domain.S("expect_add_visible"),
		domain.S("probe_badge"),
	}),
	"checkout": walk(login, []domain.Step{
		add,
		domain.S("go_to_cart"),
		domain.S("verify_cart"),
		domain.S("checkout"),
		domain.S("fill_details"),
		domain.S("continue"),
		domain.S("finish"),
		domain.S("verify_complete"),
		domain.S("expect_message"),
	}),
	"end_to_end": walk(login, []domain.Step{
		add,
		domain.S("expect_remove_visible"),
		domain.S("go_to_cart"),
		domain.S("expect_cart_items"),
		domain.S("checkout"),
		domain.S("fill_details"),
		domain.S("continue"),
		domain.S("finish"),
		domain.SV("expect_message", ConfirmationPhrase),
		domain.S("expect_text"),
	}),
	"inventory_elements": walk(login, []domain.Step{
		domain.S("expect_add_visible"),
		domain.SV("expect_badge", ""),
	}),
	"cart_badge": walk(login, []domain.Step{
		domain.SV("expect_badge", ""),
		add,
		domain.SV("expect_badge", "1"),
		remove,
		domain.S("probe_badge"),
	}),
}

// Catalog answers which kinds and operations the runner understands.
type Catalog struct{}

// Steps returns a copy of the step list of a predefined kind.
func (Catalog) Steps(kind string) ([]domain.Step, bool) {
	steps, ok := kinds[kind]
	if !ok {
		return nil, false
	}
	return append([]domain.Step(nil), steps...), true
}

// Known reports whether op is an operation of the catalog.
func (Catalog) Known(op string) bool {
	_, ok := ops[op]
	return ok
}

// Kinds lists the predefined kinds in name order.
func (Catalog) Kinds() []string {
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Ops lists the operation names in name order.
func (Catalog) Ops() []string {
	names := make([]string, 0, len(ops))
	for k := range ops {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
