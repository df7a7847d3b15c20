package driver

// Predicate scripts understood by every driver implementation. Scripts are
// function bodies; arguments are passed positionally.
const (
	// ScriptElementExists: arguments[0] is a DOM id.
	ScriptElementExists = "return document.getElementById(arguments[0]) !== null;"
	// ScriptSelectorCount: arguments[0] is a CSS selector.
	ScriptSelectorCount = "return document.querySelectorAll(arguments[0]).length;"
	// ScriptSelectorExists: arguments[0] is a CSS selector.
	ScriptSelectorExists = "return document.querySelector(arguments[0]) !== null;"
)

// AsBool interprets an Eval result as a boolean.
func AsBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// AsInt interprets an Eval result as an integer. JSON numbers decode as float64.
func AsInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
