package errors

// Template defines a registered diagnostic type.
type Template struct {
	Category Category
	Message  string
	Hint     string
	DocURL   string
}

// registry maps diagnostic codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Reactive engine diagnostics (R001-R099)
	// ============================================

	"R001": {
		Category: CategoryRuntime,
		Message:  "Mutation of a readonly view",
		Hint:     "Write through the mutable view of the same raw object, or drop the readonly wrapper where mutation is intended.",
		DocURL:   "https://reago.dev/docs/diagnostics/R001",
	},
	"R002": {
		Category: CategoryRuntime,
		Message:  "Deletion through a readonly view",
		Hint:     "Delete through the mutable view of the same raw object.",
		DocURL:   "https://reago.dev/docs/diagnostics/R002",
	},
	"R003": {
		Category: CategoryUsage,
		Message:  "Write to a computed value without a setter",
		Hint:     "Construct the computed with NewWritableComputed, or write its sources directly.",
		DocURL:   "https://reago.dev/docs/diagnostics/R003",
	},
	"R004": {
		Category: CategoryUsage,
		Message:  "OnScopeDispose called outside an active scope",
		Hint:     "Register disposal callbacks inside Scope.Run, or pass the scope explicitly.",
		DocURL:   "https://reago.dev/docs/diagnostics/R004",
	},
	"R005": {
		Category: CategoryRuntime,
		Message:  "Value cannot be observed",
		Hint:     "Only map[string]any, *[]any, map[any]any, and reactive.Set are observable; other values pass through unchanged.",
		DocURL:   "https://reago.dev/docs/diagnostics/R005",
	},
	"R006": {
		Category: CategoryUsage,
		Message:  "Run called on an inactive scope",
		Hint:     "A stopped scope cannot run code; create a new scope instead.",
		DocURL:   "https://reago.dev/docs/diagnostics/R006",
	},

	// ============================================
	// Configuration diagnostics (C001-C099)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "Invalid benchmark profile",
		Hint:     "Valid profiles are fast, standard, and stress.",
		DocURL:   "https://reago.dev/docs/diagnostics/C001",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Invalid demo server configuration",
		DocURL:   "https://reago.dev/docs/diagnostics/C002",
	},
}

// Lookup returns the registered template for a code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns every registered diagnostic code.
func Codes() []string {
	out := make([]string, 0, len(registry))
	for code := range registry {
		out = append(out, code)
	}
	return out
}
