package flow

import (
	"context"
	"strings"

	"github.com/fjglira/storeflow/internal/driver"
	"github.com/fjglira/storeflow/internal/poll"
)

// Present holds when ref exists in the DOM, visible or not.
func Present(s driver.Session, ref driver.ElementRef) poll.Condition {
	return func(ctx context.Context) (bool, error) {
		script := driver.ScriptSelectorExists
		if ref.By == driver.ByID {
			script = driver.ScriptElementExists
		}
		v, err := s.Eval(ctx, script, ref.Value)
		if err != nil {
			return false, err
		}
		return driver.AsBool(v), nil
	}
}

// Absent holds when ref is not in the DOM.
func Absent(s driver.Session, ref driver.ElementRef) poll.Condition {
	return Not(Present(s, ref))
}

// Visible holds when ref is rendered and visible.
func Visible(s driver.Session, ref driver.ElementRef) poll.Condition {
	return func(ctx context.Context) (bool, error) {
		return s.IsVisible(ctx, ref)
	}
}

// CountAtLeast holds when at least n elements match the CSS selector of ref.
func CountAtLeast(s driver.Session, ref driver.ElementRef, n int) poll.Condition {
	return func(ctx context.Context) (bool, error) {
		v, err := s.Eval(ctx, driver.ScriptSelectorCount, ref.Selector())
		if err != nil {
			return false, err
		}
		return driver.AsInt(v) >= n, nil
	}
}

// URLContains holds when the current location contains fragment.
func URLContains(s driver.Session, fragment string) poll.Condition {
	return func(ctx context.Context) (bool, error) {
		u, err := s.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		return strings.Contains(u, fragment), nil
	}
}

// All holds when every condition holds. Evaluation stops at the first false.
func All(conds ...poll.Condition) poll.Condition {
	return func(ctx context.Context) (bool, error) {
		for _, c := range conds {
			ok, err := c(ctx)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// Any holds when at least one condition holds. The last error is reported
// only when no condition could be evaluated.
func Any(conds ...poll.Condition) poll.Condition {
	return func(ctx context.Context) (bool, error) {
		var lastErr error
		evaluated := false
		for _, c := range conds {
			ok, err := c(ctx)
			if err != nil {
				lastErr = err
				continue
			}
			evaluated = true
			if ok {
				return true, nil
			}
		}
		if !evaluated {
			return false, lastErr
		}
		return false, nil
	}
}

// Not negates a condition; errors pass through.
func Not(c poll.Condition) poll.Condition {
	return func(ctx context.Context) (bool, error) {
		ok, err := c(ctx)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}

func click(s driver.Session, ref driver.ElementRef) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return s.Click(ctx, ref)
	}
}
