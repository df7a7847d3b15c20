package domain

import "fmt"

// StoreflowError is the base error type with context for the non-scenario phases.
type StoreflowError struct {
	Phase      string // "config", "scan", "parse", "convert", "report", "metrics"
	File       string
	LineNumber int
	Message    string
	Suggestion string
	Cause      error
}

func (e *StoreflowError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.LineNumber > 0 {
		s += fmt.Sprintf(":%d", e.LineNumber)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *StoreflowError) Unwrap() error {
	return e.Cause
}

// Category reports the phase as the error category.
func (e *StoreflowError) Category() string {
	return e.Phase
}

// NewError creates a new StoreflowError.
func NewError(phase, file string, line int, message string, cause error) *StoreflowError {
	return &StoreflowError{
		Phase:      phase,
		File:       file,
		LineNumber: line,
		Message:    message,
		Cause:      cause,
	}
}

// NewErrorWithSuggestion creates a StoreflowError carrying a remediation hint.
func NewErrorWithSuggestion(phase, file string, line int, message, suggestion string, cause error) *StoreflowError {
	e := NewError(phase, file, line, message, cause)
	e.Suggestion = suggestion
	return e
}

// AssertionError is a hard check failure. It aborts the current scenario.
type AssertionError struct {
	Page    string
	Check   string
	Message string
	Cause   error
}

func (e *AssertionError) Error() string {
	s := fmt.Sprintf("assertion failed on %s: %s", e.Page, e.Check)
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	return s
}

func (e *AssertionError) Unwrap() error {
	return e.Cause
}

func (e *AssertionError) Category() string {
	return "assertion"
}

// Assertf builds an AssertionError for the given page and check.
func Assertf(page, check, format string, args ...any) *AssertionError {
	return &AssertionError{Page: page, Check: check, Message: fmt.Sprintf(format, args...)}
}

// TransitionError reports an operation that is not legal from the current page.
type TransitionError struct {
	Op   string
	From string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("operation %q is not available from page %s", e.Op, e.From)
}

func (e *TransitionError) Category() string {
	return "transition"
}
