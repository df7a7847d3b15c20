// Package storefront is an in-memory, eventually consistent imitation of the
// sample shop. It implements the driver boundary so journeys can run without
// a browser, and it can inject the flakes real sessions show: delayed DOM
// swaps, swallowed clicks, stale evaluations and connection resets.
package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fjglira/storeflow/internal/clock"
	"github.com/fjglira/storeflow/internal/driver"
)

// DefaultBaseURL is used when the session config has no base URL.
const DefaultBaseURL = "https://www.saucedemo.com/"

// Options configures the simulated shop.
type Options struct {
	Clock clock.Clock
	// Latency delays the visible effect of every click.
	Latency time.Duration
	// ConnectionResets makes that many Open calls fail with a connection reset.
	ConnectionResets int
	// IgnoredClicks swallows the first N clicks on a selector in every session.
	IgnoredClicks map[string]int
	// StaleEvals makes the first N Eval calls of every session fail.
	StaleEvals int
}

// Stats counts session lifecycle events.
type Stats struct {
	Opened int
	Closed int
}

// Active is the number of sessions opened but not closed.
func (s Stats) Active() int { return s.Opened - s.Closed }

// Server hands out independent simulated sessions.
type Server struct {
	mu         sync.Mutex
	opts       Options
	resetsLeft int
	stats      Stats
	openCalls  int
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	return &Server{opts: opts, resetsLeft: opts.ConnectionResets}
}

// Open implements driver.Opener.
func (srv *Server) Open(ctx context.Context, cfg driver.SessionConfig) (driver.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, &driver.Error{Kind: driver.KindTimeout, Op: "open", Cause: err}
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.openCalls++
	if srv.resetsLeft > 0 {
		srv.resetsLeft--
		return nil, &driver.Error{Kind: driver.KindConnectionReset, Op: "open", Message: "net::ERR_CONNECTION_RESET"}
	}
	srv.stats.Opened++

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	ignored := make(map[string]int, len(srv.opts.IgnoredClicks))
	for k, v := range srv.opts.IgnoredClicks {
		ignored[k] = v
	}
	return &session{
		srv:       srv,
		id:        uuid.NewString(),
		base:      base,
		clock:     srv.opts.Clock,
		latency:   srv.opts.Latency,
		ignored:   ignored,
		staleLeft: srv.opts.StaleEvals,
		state:     state{page: pageLogin, fields: map[string]string{}},
	}, nil
}

// Stats returns a snapshot of lifecycle counters.
func (srv *Server) Stats() Stats {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.stats
}

// OpenCalls counts every Open call, including failed ones.
func (srv *Server) OpenCalls() int {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.openCalls
}

func (srv *Server) closed() {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.stats.Closed++
}
