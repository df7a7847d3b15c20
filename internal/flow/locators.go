package flow

import "github.com/fjglira/storeflow/internal/driver"

// Login page.
var (
	UsernameField = driver.ID("Username Field", "user-name")
	PasswordField = driver.ID("Password Field", "password")
	LoginButton   = driver.ID("Login Button", "login-button")
	ErrorMessage  = driver.CSS("Error Message", "[data-test='error']")
)

// Inventory page.
var (
	InventoryContainer = driver.ID("Inventory Container", "inventory_container")
	AddToCartBackpack  = driver.ID("Add Backpack to Cart", "add-to-cart-sauce-labs-backpack")
	RemoveBackpack     = driver.ID("Remove Backpack from Cart", "remove-sauce-labs-backpack")
	CartBadge          = driver.CSS("Cart Badge", ".shopping_cart_badge")
	CartLink           = driver.ID("Cart Link", "shopping_cart_container")
)

// Cart page.
var (
	CartItem               = driver.CSS("Cart Item", ".cart_item")
	CheckoutButton         = driver.ID("Checkout Button", "checkout")
	ContinueShoppingButton = driver.ID("Continue Shopping Button", "continue-shopping")
)

// Checkout information and overview pages.
var (
	FirstNameField = driver.ID("First Name Field", "first-name")
	LastNameField  = driver.ID("Last Name Field", "last-name")
	ZipCodeField   = driver.ID("Zip Code Field", "postal-code")
	ContinueButton = driver.ID("Continue Button", "continue")
	FinishButton   = driver.ID("Finish Button", "finish")
	CancelButton   = driver.ID("Cancel Button", "cancel")
)

// Confirmation page.
var (
	ConfirmationMessage = driver.CSS("Confirmation Message", ".complete-header")
	ConfirmationText    = driver.CSS("Confirmation Text", ".complete-text")
	BackHomeButton      = driver.ID("Back Home Button", "back-to-products")
)

// CartURLFragment identifies the cart view in the current location.
const CartURLFragment = "cart"
