package headless

import (
	"github.com/dmitrymomot/senzor/pkg/session"
	"github.com/dmitrymomot/senzor/pkg/transport"
)

// Option configures a Page.
type Option func(*Page)

// WithTitle sets the initial document title.
func WithTitle(title string) Option {
	return func(p *Page) { p.title = title }
}

// WithReferrer sets document.referrer for the lifetime of the page.
func WithReferrer(ref string) Option {
	return func(p *Page) { p.referrer = ref }
}

// WithViewportWidth sets the viewport width in pixels.
func WithViewportWidth(w int) Option {
	return func(p *Page) { p.width = w }
}

// WithTimezone sets the IANA timezone name.
func WithTimezone(tz string) Option {
	return func(p *Page) {
		if tz != "" {
			p.timezone = tz
		}
	}
}

// WithDurableStorage shares a durable scope between pages of one device.
func WithDurableStorage(s session.Scope) Option {
	return func(p *Page) { p.durable = s }
}

// WithSessionStorage shares an ephemeral scope between pages of one tab.
func WithSessionStorage(s session.Scope) Option {
	return func(p *Page) { p.ephemeral = s }
}

// WithBeacon replaces the recording beacon. Beacons then returns nil.
func WithBeacon(b transport.Beacon) Option {
	return func(p *Page) {
		p.beacon = b
		p.recorder = nil
	}
}

// WithRecorder uses r as the beacon and as the source for Beacons.
func WithRecorder(r *Recorder) Option {
	return func(p *Page) {
		p.beacon = nil
		p.recorder = r
	}
}

// WithoutBeacon simulates a platform without an unload-safe queue.
func WithoutBeacon() Option {
	return func(p *Page) {
		p.beacon = nil
		p.recorder = nil
	}
}
