package poll

import (
	"errors"
	"fmt"
)

// ExhaustedError is returned when every evaluation of a polling round failed
// with the same kind of error. It separates "the driver is broken" from "the
// condition never became true".
type ExhaustedError struct {
	Evaluations int
	Kind        string
	Last        error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("poll exhausted after %d evaluation(s), all failing with %s: %v", e.Evaluations, e.Kind, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

func (e *ExhaustedError) Category() string { return "poll-exhausted" }

type categorized interface {
	Category() string
}

// ErrorKind returns a stable kind for err: its category when it has one,
// otherwise its dynamic type.
func ErrorKind(err error) string {
	var c categorized
	if errors.As(err, &c) {
		return c.Category()
	}
	return fmt.Sprintf("%T", err)
}
