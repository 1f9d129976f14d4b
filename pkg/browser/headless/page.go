package headless

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/goccy/go-json"

	"github.com/dmitrymomot/senzor/pkg/browser"
	"github.com/dmitrymomot/senzor/pkg/event"
	"github.com/dmitrymomot/senzor/pkg/session"
	"github.com/dmitrymomot/senzor/pkg/transport"
)

var (
	ErrInvalidURL = errors.New("headless: invalid page URL")
	ErrClosed     = errors.New("headless: page is closed")
)

var _ browser.Host = (*Page)(nil)

type entry struct {
	url   *url.URL
	title string
}

// Page is an in-memory document.
type Page struct {
	mu       sync.Mutex
	location *url.URL
	title    string
	referrer string
	width    int
	timezone string
	history  []entry
	hidden   bool
	closed   bool

	durable   session.Scope
	ephemeral session.Scope
	beacon    transport.Beacon
	recorder  *Recorder

	interceptors []func(next func())
	popState     []func()
	visibility   []func(hidden bool)
	pageHide     []func()
}

// New opens a page at rawURL, which must be absolute.
func New(rawURL string, opts ...Option) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, rawURL)
	}

	p := &Page{
		location: u,
		width:    1280,
		timezone: "UTC",
		recorder: NewRecorder(true),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.durable == nil {
		p.durable = session.NewMemoryScope()
	}
	if p.ephemeral == nil {
		p.ephemeral = session.NewMemoryScope()
	}
	if p.beacon == nil && p.recorder != nil {
		p.beacon = p.recorder
	}
	return p, nil
}

// URL implements event.Page.
func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location.String()
}

// Path implements event.Page.
func (p *Page) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.location.Path == "" {
		return "/"
	}
	return p.location.Path
}

// Title implements event.Page.
func (p *Page) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// Referrer implements event.Page. It keeps the value the document was
// opened with; history navigation does not change it.
func (p *Page) Referrer() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.referrer
}

// Host implements event.Page.
func (p *Page) Host() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location.Host
}

// ViewportWidth implements event.Page.
func (p *Page) ViewportWidth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width
}

// Timezone implements event.Page.
func (p *Page) Timezone() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timezone
}

// DurableStorage implements browser.Host.
func (p *Page) DurableStorage() session.Scope { return p.durable }

// SessionStorage implements browser.Host.
func (p *Page) SessionStorage() session.Scope { return p.ephemeral }

// Beacon implements browser.Host.
func (p *Page) Beacon() transport.Beacon { return p.beacon }

// InterceptNavigation implements browser.Host.
func (p *Page) InterceptNavigation(handler func(next func())) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interceptors = append(p.interceptors, handler)
}

// OnPopState implements browser.Host.
func (p *Page) OnPopState(handler func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.popState = append(p.popState, handler)
}

// OnVisibilityChange implements browser.Host.
func (p *Page) OnVisibilityChange(handler func(hidden bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visibility = append(p.visibility, handler)
}

// OnPageHide implements browser.Host.
func (p *Page) OnPageHide(handler func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pageHide = append(p.pageHide, handler)
}

// Navigate pushes a history entry, like history.pushState from a router.
// rawURL may be relative to the current location. Each interceptor wraps the
// ones registered before it.
func (p *Page) Navigate(rawURL, title string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		p.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	target := p.location.ResolveReference(ref)
	interceptors := append([]func(next func()){}, p.interceptors...)
	p.mu.Unlock()

	push := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.history = append(p.history, entry{url: p.location, title: p.title})
		p.location = target
		p.title = title
	}

	run := push
	for _, h := range interceptors {
		next := run
		run = func() { h(next) }
	}
	run()
	return nil
}

// Back pops the history stack and dispatches popstate. It reports false when
// there is nothing to go back to.
func (p *Page) Back() bool {
	p.mu.Lock()
	if p.closed || len(p.history) == 0 {
		p.mu.Unlock()
		return false
	}
	prev := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]
	p.location = prev.url
	p.title = prev.title
	handlers := append([]func(){}, p.popState...)
	p.mu.Unlock()

	for _, h := range handlers {
		h()
	}
	return true
}

// Hide marks the document hidden and dispatches visibilitychange.
func (p *Page) Hide() {
	p.setHidden(true)
}

// Show marks the document visible and dispatches visibilitychange.
func (p *Page) Show() {
	p.setHidden(false)
}

// Hidden reports the current visibility state.
func (p *Page) Hidden() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hidden
}

func (p *Page) setHidden(hidden bool) {
	p.mu.Lock()
	if p.closed || p.hidden == hidden {
		p.mu.Unlock()
		return
	}
	p.hidden = hidden
	handlers := append([]func(bool){}, p.visibility...)
	p.mu.Unlock()

	for _, h := range handlers {
		h(hidden)
	}
}

// Close tears the document down and dispatches pagehide. Session storage
// survives, as it does for a reload.
func (p *Page) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	handlers := append([]func(){}, p.pageHide...)
	p.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

// CloseTab closes the page and clears its session storage.
func (p *Page) CloseTab() {
	p.Close()
	if c, ok := p.ephemeral.(interface{ Clear() }); ok {
		c.Clear()
	}
}

// Beacons decodes every payload the recording beacon accepted, in order.
// It returns nil when the page was created with a custom beacon or none.
func (p *Page) Beacons() []event.Payload {
	if p.recorder == nil {
		return nil
	}
	return p.recorder.Payloads()
}

// Recorder is a Beacon that keeps every body it is given.
type Recorder struct {
	mu     sync.Mutex
	accept bool
	bodies [][]byte
	urls   []string
}

// NewRecorder creates a recorder that returns accept from SendBeacon.
func NewRecorder(accept bool) *Recorder {
	return &Recorder{accept: accept}
}

// SendBeacon implements transport.Beacon.
func (r *Recorder) SendBeacon(url, _ string, body []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, url)
	r.bodies = append(r.bodies, append([]byte(nil), body...))
	return r.accept
}

// URLs returns the target of every recorded beacon.
func (r *Recorder) URLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.urls...)
}

// Payloads decodes the recorded bodies; undecodable bodies are skipped.
func (r *Recorder) Payloads() []event.Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Payload, 0, len(r.bodies))
	for _, b := range r.bodies {
		var p event.Payload
		if err := json.Unmarshal(b, &p); err == nil {
			out = append(out, p)
		}
	}
	return out
}
