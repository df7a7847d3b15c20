// Package browser implements the driver boundary on top of a real Chrome,
// driven over the DevTools protocol with chromedp.
package browser

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/storeflow/internal/driver"
)

const (
	// DefaultActionTimeout bounds a single driver call when the config has none.
	DefaultActionTimeout = 10 * time.Second
	// DefaultBaseURL is the storefront opened when the config has no base URL.
	DefaultBaseURL = "https://www.saucedemo.com/"
)

// Opener launches or attaches to Chrome, one browser context per session.
type Opener struct {
	log logrus.FieldLogger
}

// NewOpener creates an Opener.
func NewOpener(log logrus.FieldLogger) *Opener {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Opener{log: log}
}

// Open starts a browser context and navigates to the base URL. With a remote
// URL it attaches to a running Chrome instead of launching one.
func (o *Opener) Open(ctx context.Context, cfg driver.SessionConfig) (driver.Session, error) {
	id := uuid.NewString()
	log := o.log.WithField("session", id)

	var (
		allocCtx    context.Context
		cancelAlloc context.CancelFunc
	)
	if cfg.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	} else {
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(context.Background(), AllocatorOptions(cfg)...)
	}
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(log.Debugf),
		chromedp.WithErrorf(log.Errorf),
	)

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			args := make([]string, len(ev.Args))
			for i, arg := range ev.Args {
				args[i] = string(arg.Value)
			}
			log.WithField("type", ev.Type).Debugf("console: %s", strings.Join(args, " "))
		case *runtime.EventExceptionThrown:
			log.WithField("line", ev.ExceptionDetails.LineNumber).Debugf("page exception: %s", ev.ExceptionDetails.Text)
		}
	})

	s := &session{
		id:      id,
		ctx:     browserCtx,
		timeout: cfg.ActionTimeout,
		log:     log,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
	}
	if s.timeout <= 0 {
		s.timeout = DefaultActionTimeout
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if err := s.allocate(ctx); err != nil {
		s.cancel()
		return nil, err
	}
	if err := s.run(ctx, "open", driver.ElementRef{}, chromedp.Navigate(base)); err != nil {
		s.cancel()
		return nil, err
	}
	log.WithField("url", base).Debug("session opened")
	return s, nil
}

// AllocatorOptions builds the Chrome launch flags for cfg.
func AllocatorOptions(cfg driver.SessionConfig) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", cfg.Headless))
	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight))
	}
	return opts
}
