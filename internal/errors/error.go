package errors

import "fmt"

// Category represents the kind of diagnostic.
type Category string

const (
	// CategoryRuntime covers anomalies raised by the reactive engine
	// itself (rejected mutations, invalid wrap targets).
	CategoryRuntime Category = "runtime"

	// CategoryUsage covers API misuse by the host application
	// (lifecycle registration outside a scope, setterless writes).
	CategoryUsage Category = "usage"

	// CategoryConfig covers invalid configuration values.
	CategoryConfig Category = "config"

	// CategoryCLI covers command-line usage errors.
	CategoryCLI Category = "cli"
)

// ReagoError is a structured diagnostic with a code, an explanation,
// and a documentation link. It implements the error interface so it can
// travel through ordinary error plumbing where needed, but the engine
// reports it through warn handlers rather than returning it.
type ReagoError struct {
	// Code is a unique diagnostic identifier (e.g., "R001").
	Code string

	// Category is the diagnostic kind (runtime, usage, ...).
	Category Category

	// Message is the short registered description.
	Message string

	// Detail is the situation-specific explanation.
	Detail string

	// Hint suggests how to avoid the diagnostic.
	Hint string

	// DocURL links to the documentation page for this code.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ReagoError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ReagoError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a situation-specific explanation.
func (e *ReagoError) WithDetail(d string) *ReagoError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted situation-specific explanation.
func (e *ReagoError) WithDetailf(format string, args ...any) *ReagoError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithHint adds a fix suggestion.
func (e *ReagoError) WithHint(h string) *ReagoError {
	e.Hint = h
	return e
}

// Wrap attaches an underlying error.
func (e *ReagoError) Wrap(err error) *ReagoError {
	e.Wrapped = err
	return e
}

// New creates a ReagoError from a registered diagnostic code.
// Unregistered codes produce a bare error carrying only the code.
func New(code string) *ReagoError {
	template, ok := registry[code]
	if !ok {
		return &ReagoError{
			Code:    code,
			Message: "Unknown diagnostic",
		}
	}
	return &ReagoError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Hint:     template.Hint,
		DocURL:   template.DocURL,
	}
}

// Newf creates an uncoded ReagoError with a formatted message.
func Newf(category Category, format string, args ...any) *ReagoError {
	return &ReagoError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error under a registered code.
func FromError(err error, code string) *ReagoError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*ReagoError); ok {
		return re
	}
	return New(code).Wrap(err)
}
