package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/storeflow/internal/driver"
)

type session struct {
	id      string
	ctx     context.Context
	timeout time.Duration
	log     logrus.FieldLogger
	cancel  context.CancelFunc
	closed  bool
}

func (s *session) ID() string { return s.id }

// run executes actions on the browser context, bounded by the action timeout
// and by the caller's context.
func (s *session) run(ctx context.Context, op string, ref driver.ElementRef, actions ...chromedp.Action) error {
	if s.closed {
		return driver.Errorf(driver.KindClosed, op, ref, "session %s is closed", s.id)
	}
	actx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(actx, actions...); err != nil {
		return Classify(op, ref, err)
	}
	return nil
}

// allocate starts the browser and its first tab. chromedp ties both to the
// context of the first Run, so that Run must use the session context itself
// and never a per-action deadline. ctx only bounds how long Open waits.
func (s *session) allocate(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(s.ctx) }()
	select {
	case err := <-done:
		return Classify("open", driver.ElementRef{}, err)
	case <-ctx.Done():
		s.cancel()
		<-done
		return Classify("open", driver.ElementRef{}, ctx.Err())
	}
}

func (s *session) Click(ctx context.Context, ref driver.ElementRef) error {
	if err := s.mustExist(ctx, "click", ref); err != nil {
		return err
	}
	return s.run(ctx, "click", ref, chromedp.Click(ref.Selector(), chromedp.ByQuery))
}

func (s *session) Type(ctx context.Context, ref driver.ElementRef, text string) error {
	if err := s.mustExist(ctx, "type", ref); err != nil {
		return err
	}
	sel := ref.Selector()
	actions := []chromedp.Action{chromedp.Clear(sel, chromedp.ByQuery)}
	if text != "" {
		actions = append(actions, chromedp.SendKeys(sel, text, chromedp.ByQuery))
	}
	return s.run(ctx, "type", ref, actions...)
}

func (s *session) IsVisible(ctx context.Context, ref driver.ElementRef) (bool, error) {
	expr, err := WrapScript(scriptVisible, ref.Selector())
	if err != nil {
		return false, err
	}
	var visible bool
	if err := s.run(ctx, "visible", ref, chromedp.Evaluate(expr, &visible)); err != nil {
		return false, err
	}
	return visible, nil
}

func (s *session) Text(ctx context.Context, ref driver.ElementRef) (string, error) {
	expr, err := WrapScript(scriptText, ref.Selector())
	if err != nil {
		return "", err
	}
	var res struct {
		Found bool   `json:"found"`
		Text  string `json:"text"`
	}
	if err := s.run(ctx, "text", ref, chromedp.Evaluate(expr, &res)); err != nil {
		return "", err
	}
	if !res.Found {
		return "", driver.Errorf(driver.KindNoSuchElement, "text", ref, "no element matches %s", ref.Selector())
	}
	return res.Text, nil
}

func (s *session) CurrentURL(ctx context.Context) (string, error) {
	var u string
	if err := s.run(ctx, "url", driver.ElementRef{}, chromedp.Location(&u)); err != nil {
		return "", err
	}
	return u, nil
}

func (s *session) Eval(ctx context.Context, script string, args ...any) (any, error) {
	expr, err := WrapScript(script, args...)
	if err != nil {
		return nil, err
	}
	var v any
	if err := s.run(ctx, "eval", driver.ElementRef{}, chromedp.Evaluate(expr, &v)); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *session) Close(context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	s.log.Debug("browser context closed")
	return nil
}

func (s *session) mustExist(ctx context.Context, op string, ref driver.ElementRef) error {
	v, err := s.Eval(ctx, driver.ScriptSelectorExists, ref.Selector())
	if err != nil {
		return err
	}
	if !driver.AsBool(v) {
		return driver.Errorf(driver.KindNoSuchElement, op, ref, "no element matches %s", ref.Selector())
	}
	return nil
}

const (
	scriptVisible = `var e = document.querySelector(arguments[0]);
if (e === null) { return false; }
var st = window.getComputedStyle(e);
var r = e.getBoundingClientRect();
return st.display !== 'none' && st.visibility !== 'hidden' && r.width > 0 && r.height > 0;`

	scriptText = `var e = document.querySelector(arguments[0]);
if (e === null) { return {found: false, text: ""}; }
return {found: true, text: e.innerText};`
)

// WrapScript turns a function body into an expression applied to args.
func WrapScript(script string, args ...any) (string, error) {
	if args == nil {
		args = []any{}
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return "", driver.Errorf(driver.KindUnsupported, "eval", driver.ElementRef{}, "arguments are not serializable: %v", err)
	}
	return fmt.Sprintf("(function(){%s}).apply(null, %s)", script, encoded), nil
}
