package storefront

import (
	"context"
	"time"

	"github.com/fjglira/storeflow/internal/clock"
	"github.com/fjglira/storeflow/internal/driver"
)

type mutation struct {
	at    time.Time
	apply func(*state)
}

type session struct {
	srv       *Server
	id        string
	base      string
	clock     clock.Clock
	latency   time.Duration
	ignored   map[string]int
	staleLeft int
	closed    bool

	state   state
	pending []mutation
}

func (s *session) ID() string { return s.id }

// settle applies every mutation that is due.
func (s *session) settle() {
	now := s.clock.Now()
	i := 0
	for ; i < len(s.pending) && !s.pending[i].at.After(now); i++ {
		s.pending[i].apply(&s.state)
	}
	s.pending = s.pending[i:]
}

func (s *session) check(ctx context.Context, op string, ref driver.ElementRef) error {
	if s.closed {
		return driver.Errorf(driver.KindClosed, op, ref, "session %s is closed", s.id)
	}
	if err := ctx.Err(); err != nil {
		return &driver.Error{Kind: driver.KindTimeout, Op: op, Ref: ref.String(), Cause: err}
	}
	s.settle()
	return nil
}

func (s *session) lookup(op string, ref driver.ElementRef) (string, error) {
	text, ok := s.state.elements()[ref.Selector()]
	if !ok {
		return "", driver.Errorf(driver.KindNoSuchElement, op, ref, "no element matches %s", ref.Selector())
	}
	return text, nil
}

func (s *session) Click(ctx context.Context, ref driver.ElementRef) error {
	if err := s.check(ctx, "click", ref); err != nil {
		return err
	}
	if _, err := s.lookup("click", ref); err != nil {
		return err
	}
	sel := ref.Selector()
	if s.ignored[sel] > 0 {
		s.ignored[sel]--
		return nil
	}
	s.pending = append(s.pending, mutation{
		at:    s.clock.Now().Add(s.latency),
		apply: effect(sel, s.projected()),
	})
	return nil
}

// projected is the state once everything already scheduled has landed. Click
// effects are computed against it so queued clicks compose in order.
func (s *session) projected() state {
	st := s.state.clone()
	for _, m := range s.pending {
		m.apply(&st)
	}
	return st
}

func (s *session) Type(ctx context.Context, ref driver.ElementRef, text string) error {
	if err := s.check(ctx, "type", ref); err != nil {
		return err
	}
	if _, err := s.lookup("type", ref); err != nil {
		return err
	}
	sel := ref.Selector()
	if !inputs[sel] {
		return driver.Errorf(driver.KindUnsupported, "type", ref, "element is not an input")
	}
	s.state.fields[sel] = text
	return nil
}

func (s *session) IsVisible(ctx context.Context, ref driver.ElementRef) (bool, error) {
	if err := s.check(ctx, "visible", ref); err != nil {
		return false, err
	}
	_, ok := s.state.elements()[ref.Selector()]
	return ok, nil
}

func (s *session) Text(ctx context.Context, ref driver.ElementRef) (string, error) {
	if err := s.check(ctx, "text", ref); err != nil {
		return "", err
	}
	return s.lookup("text", ref)
}

func (s *session) CurrentURL(ctx context.Context) (string, error) {
	if err := s.check(ctx, "url", driver.ElementRef{}); err != nil {
		return "", err
	}
	return s.base + string(s.state.page), nil
}

func (s *session) Eval(ctx context.Context, script string, args ...any) (any, error) {
	if err := s.check(ctx, "eval", driver.ElementRef{}); err != nil {
		return nil, err
	}
	if s.staleLeft > 0 {
		s.staleLeft--
		return nil, driver.Errorf(driver.KindStaleElement, "eval", driver.ElementRef{}, "execution context was destroyed")
	}
	if len(args) != 1 {
		return nil, driver.Errorf(driver.KindUnsupported, "eval", driver.ElementRef{}, "expected one argument, got %d", len(args))
	}
	arg, ok := args[0].(string)
	if !ok {
		return nil, driver.Errorf(driver.KindUnsupported, "eval", driver.ElementRef{}, "argument must be a string")
	}

	els := s.state.elements()
	switch script {
	case driver.ScriptElementExists:
		_, found := els["#"+arg]
		return found, nil
	case driver.ScriptSelectorExists:
		_, found := els[arg]
		return found, nil
	case driver.ScriptSelectorCount:
		if _, found := els[arg]; found {
			return float64(1), nil
		}
		return float64(0), nil
	default:
		return nil, driver.Errorf(driver.KindUnsupported, "eval", driver.ElementRef{}, "script not supported by the simulator")
	}
}

func (s *session) Close(context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.srv.closed()
	return nil
}
