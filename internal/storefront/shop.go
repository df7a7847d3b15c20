package storefront

import "strings"

type page string

const (
	pageLogin     page = ""
	pageInventory page = "inventory.html"
	pageCart      page = "cart.html"
	pageStepOne   page = "checkout-step-one.html"
	pageStepTwo   page = "checkout-step-two.html"
	pageComplete  page = "checkout-complete.html"
)

const (
	validPassword    = "secret_sauce"
	lockedOutUser    = "locked_out_user"
	completeHeader   = "Thank you for your order!"
	completeText     = "Your order has been dispatched, and will arrive just as fast as the pony can get there!"
	errorSelector    = "[data-test='error']"
	badgeSelector    = ".shopping_cart_badge"
	cartItemSelector = ".cart_item"
)

var knownUsers = map[string]bool{
	"standard_user":           true,
	"problem_user":            true,
	"performance_glitch_user": true,
	"error_user":              true,
	"visual_user":             true,
	lockedOutUser:             true,
}

var inputs = map[string]bool{
	"#user-name":   true,
	"#password":    true,
	"#first-name":  true,
	"#last-name":   true,
	"#postal-code": true,
}

// state is what the page shows once all settled mutations are applied.
type state struct {
	page     page
	user     string
	inCart   bool
	errorMsg string
	fields   map[string]string
}

func (st state) clone() state {
	c := st
	c.fields = make(map[string]string, len(st.fields))
	for k, v := range st.fields {
		c.fields[k] = v
	}
	return c
}

// elements maps every rendered selector to its text.
func (st state) elements() map[string]string {
	els := map[string]string{}
	badge := func() {
		if st.inCart {
			els[badgeSelector] = "1"
		}
	}
	switch st.page {
	case pageLogin:
		els["#user-name"] = st.fields["#user-name"]
		els["#password"] = st.fields["#password"]
		els["#login-button"] = "Login"
	case pageInventory:
		els["#inventory_container"] = ""
		els["#shopping_cart_container"] = ""
		if st.inCart {
			els["#remove-sauce-labs-backpack"] = "Remove"
		} else {
			els["#add-to-cart-sauce-labs-backpack"] = "Add to cart"
		}
		badge()
	case pageCart:
		els["#shopping_cart_container"] = ""
		els["#checkout"] = "Checkout"
		els["#continue-shopping"] = "Continue Shopping"
		if st.inCart {
			els[cartItemSelector] = "Sauce Labs Backpack"
		}
		badge()
	case pageStepOne:
		els["#first-name"] = st.fields["#first-name"]
		els["#last-name"] = st.fields["#last-name"]
		els["#postal-code"] = st.fields["#postal-code"]
		els["#continue"] = "Continue"
		els["#cancel"] = "Cancel"
		badge()
	case pageStepTwo:
		els["#finish"] = "Finish"
		els["#cancel"] = "Cancel"
		if st.inCart {
			els[cartItemSelector] = "Sauce Labs Backpack"
		}
		badge()
	case pageComplete:
		els[".complete-header"] = completeHeader
		els[".complete-text"] = completeText
		els["#back-to-products"] = "Back Home"
	}
	if st.errorMsg != "" {
		els[errorSelector] = st.errorMsg
	}
	return els
}

// effect computes what clicking selector does, given the state at click time.
func effect(selector string, at state) func(*state) {
	switch selector {
	case "#login-button":
		user, pass := at.fields["#user-name"], at.fields["#password"]
		msg := loginError(user, pass)
		return func(st *state) {
			if msg != "" {
				st.errorMsg = msg
				return
			}
			st.page, st.user, st.errorMsg = pageInventory, user, ""
		}
	case "#add-to-cart-sauce-labs-backpack":
		return func(st *state) { st.inCart = true }
	case "#remove-sauce-labs-backpack":
		return func(st *state) { st.inCart = false }
	case "#shopping_cart_container":
		return navigate(pageCart)
	case "#continue-shopping", "#back-to-products":
		return navigate(pageInventory)
	case "#checkout":
		return func(st *state) {
			st.page, st.errorMsg = pageStepOne, ""
			delete(st.fields, "#first-name")
			delete(st.fields, "#last-name")
			delete(st.fields, "#postal-code")
		}
	case "#continue":
		msg := checkoutError(at.fields)
		return func(st *state) {
			if msg != "" {
				st.errorMsg = msg
				return
			}
			st.page, st.errorMsg = pageStepTwo, ""
		}
	case "#cancel":
		return navigate(pageCart)
	case "#finish":
		return func(st *state) { st.page, st.inCart = pageComplete, false }
	default:
		return func(*state) {}
	}
}

func navigate(p page) func(*state) {
	return func(st *state) { st.page, st.errorMsg = p, "" }
}

func loginError(user, pass string) string {
	switch {
	case user == "":
		return "Epic sadface: Username is required"
	case pass == "":
		return "Epic sadface: Password is required"
	case !knownUsers[user] || pass != validPassword:
		return "Epic sadface: Username and password do not match any user in this service"
	case user == lockedOutUser:
		return "Epic sadface: Sorry, this user has been locked out."
	default:
		return ""
	}
}

func checkoutError(fields map[string]string) string {
	switch {
	case strings.TrimSpace(fields["#first-name"]) == "":
		return "Error: First Name is required"
	case strings.TrimSpace(fields["#last-name"]) == "":
		return "Error: Last Name is required"
	case strings.TrimSpace(fields["#postal-code"]) == "":
		return "Error: Postal Code is required"
	default:
		return ""
	}
}
