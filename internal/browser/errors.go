package browser

import (
	"context"
	"errors"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/fjglira/storeflow/internal/driver"
)

// Classify maps a chromedp or protocol failure to a driver error kind.
func Classify(op string, ref driver.ElementRef, err error) error {
	if err == nil {
		return nil
	}
	var de *driver.Error
	if errors.As(err, &de) {
		return err
	}

	msg := err.Error()
	kind := driver.KindProtocol
	switch {
	case strings.Contains(msg, "ERR_CONNECTION_RESET"):
		kind = driver.KindConnectionReset
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = driver.KindTimeout
	case errors.Is(err, chromedp.ErrInvalidContext), errors.Is(err, chromedp.ErrChannelClosed):
		kind = driver.KindClosed
	case errors.Is(err, chromedp.ErrNoResults):
		kind = driver.KindNoSuchElement
	case strings.Contains(msg, "Cannot find context with specified id"),
		strings.Contains(msg, "Execution context was destroyed"),
		strings.Contains(msg, "Could not find node with given id"):
		kind = driver.KindStaleElement
	}
	return &driver.Error{Kind: kind, Op: op, Ref: ref.String(), Cause: err}
}
