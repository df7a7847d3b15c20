// Package driver defines the browser-automation capability boundary that the
// flow core consumes. Implementations live in internal/browser (chromedp) and
// internal/storefront (in-memory simulator).
package driver

import (
	"context"
	"time"
)

// By selects how an ElementRef value is interpreted.
type By string

const (
	ByID  By = "id"
	ByCSS By = "css"
)

// ElementRef is an opaque handle resolved by a driver to a live element.
type ElementRef struct {
	Name  string
	By    By
	Value string
}

// ID builds a reference to the element with the given DOM id.
func ID(name, id string) ElementRef { return ElementRef{Name: name, By: ByID, Value: id} }

// CSS builds a reference to the first element matching selector.
func CSS(name, selector string) ElementRef { return ElementRef{Name: name, By: ByCSS, Value: selector} }

// Selector renders the reference as a CSS selector.
func (r ElementRef) Selector() string {
	if r.By == ByID {
		return "#" + r.Value
	}
	return r.Value
}

func (r ElementRef) String() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Selector()
}

// Session is one exclusive browser context. It is not safe for concurrent use.
type Session interface {
	ID() string
	Click(ctx context.Context, ref ElementRef) error
	// Type replaces the current value of an input with text.
	Type(ctx context.Context, ref ElementRef, text string) error
	IsVisible(ctx context.Context, ref ElementRef) (bool, error)
	Text(ctx context.Context, ref ElementRef) (string, error)
	CurrentURL(ctx context.Context) (string, error)
	// Eval runs script as a function body; args are available as arguments[i].
	Eval(ctx context.Context, script string, args ...any) (any, error)
	Close(ctx context.Context) error
}

// SessionConfig describes how to open a session.
type SessionConfig struct {
	BaseURL       string
	RemoteURL     string
	Headless      bool
	WindowWidth   int
	WindowHeight  int
	ActionTimeout time.Duration
}

// Opener creates sessions.
type Opener interface {
	Open(ctx context.Context, cfg SessionConfig) (Session, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, cfg SessionConfig) (Session, error)

func (f OpenerFunc) Open(ctx context.Context, cfg SessionConfig) (Session, error) {
	return f(ctx, cfg)
}
