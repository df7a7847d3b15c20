// Package probe turns throwing checks into non-throwing reads and keeps an
// ordered record of every result for diagnostics.
package probe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjglira/storeflow/internal/clock"
	"github.com/fjglira/storeflow/internal/domain"
	"github.com/fjglira/storeflow/internal/poll"
)

// Recorder collects probe results for one scenario.
type Recorder struct {
	mu      sync.Mutex
	clock   clock.Clock
	results []domain.Diagnostic
}

// NewRecorder creates a Recorder stamping results with c (wall clock if nil).
func NewRecorder(c clock.Clock) *Recorder {
	if c == nil {
		c = clock.Real{}
	}
	return &Recorder{clock: c}
}

// Results returns a copy of the recorded results in order.
func (r *Recorder) Results() []domain.Diagnostic {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Diagnostic, len(r.results))
	copy(out, r.results)
	return out
}

// Misses returns only the results that suppressed a failure.
func (r *Recorder) Misses() []domain.Diagnostic {
	var out []domain.Diagnostic
	for _, d := range r.Results() {
		if !d.Hit {
			out = append(out, d)
		}
	}
	return out
}

// Note records an observation that did not come from a probed operation,
// such as a soft wait whose post-condition was not met.
func (r *Recorder) Note(name string, hit bool, value string) {
	r.append(domain.Diagnostic{Probe: name, Hit: hit, Value: value})
}

func (r *Recorder) append(d domain.Diagnostic) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d.At = r.clock.Now()
	r.results = append(r.results, d)
}

// Do runs op and returns its value. Any error or panic is suppressed: the zero
// value and false are returned and the failure category is recorded.
func Do[T any](r *Recorder, name string, op func() (T, error)) (value T, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			var zero T
			value, ok = zero, false
			r.append(domain.Diagnostic{Probe: name, Category: "panic", Message: fmt.Sprint(p)})
		}
	}()

	v, err := op()
	if err != nil {
		r.append(domain.Diagnostic{Probe: name, Category: Category(err), Message: err.Error()})
		var zero T
		return zero, false
	}
	r.append(domain.Diagnostic{Probe: name, Hit: true, Value: fmt.Sprint(v)})
	return v, true
}

// Check is Do for conditions: a failing evaluation reads as false.
func Check(ctx context.Context, r *Recorder, name string, cond poll.Condition) bool {
	v, ok := Do(r, name, func() (bool, error) { return cond(ctx) })
	return ok && v
}

// Category classifies a suppressed error for reporting.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	kind := poll.ErrorKind(err)
	if len(kind) > 0 && kind[0] == '*' {
		return "error"
	}
	return kind
}
