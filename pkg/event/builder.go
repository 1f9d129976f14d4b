package event

import (
	"context"
	"time"

	"github.com/dmitrymomot/senzor/pkg/session"
)

// Page is the read-only navigation context of the current document.
type Page interface {
	// URL is the full location href.
	URL() string
	// Path is the location pathname as reported by the platform.
	Path() string
	Title() string
	// Referrer is the incoming document referrer; may be empty.
	Referrer() string
	// Host is the location host including port.
	Host() string
	// ViewportWidth is the viewport width in CSS pixels.
	ViewportWidth() int
	// Timezone is the IANA name of the visitor's timezone.
	Timezone() string
}

// IdentityProvider resolves the identity attached to each payload.
// *session.Manager implements it.
type IdentityProvider interface {
	Ensure(ctx context.Context, v session.Visit) session.Identity
}

// Builder creates payloads for one site.
type Builder struct {
	webID    string
	page     Page
	identity IdentityProvider
	now      func() time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithClock sets the time source used for ping durations.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates a payload builder for webID reading navigation context
// from page and identity from provider.
func NewBuilder(webID string, page Page, provider IdentityProvider, opts ...BuilderOption) *Builder {
	b := &Builder{
		webID:    webID,
		page:     page,
		identity: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildPageview returns a pageview payload for the current page.
func (b *Builder) BuildPageview(ctx context.Context) Payload {
	return b.build(ctx, TypePageview)
}

// BuildPing returns a ping carrying the whole seconds elapsed since start.
// It returns false when less than one second has passed.
func (b *Builder) BuildPing(ctx context.Context, start time.Time) (Payload, bool) {
	d := Duration(start, b.now())
	if d < 1 {
		return Payload{}, false
	}
	p := b.build(ctx, TypePing)
	p.Duration = d
	return p, true
}

func (b *Builder) build(ctx context.Context, t Type) Payload {
	id := b.identity.Ensure(ctx, session.Visit{
		Referrer: b.page.Referrer(),
		Host:     b.page.Host(),
	})

	return Payload{
		Type:      t,
		WebID:     b.webID,
		VisitorID: id.VisitorID,
		SessionID: id.SessionID,
		Referrer:  id.Referrer,
		URL:       b.page.URL(),
		Path:      b.page.Path(),
		Title:     b.page.Title(),
		Width:     b.page.ViewportWidth(),
		Timezone:  b.page.Timezone(),
	}
}

// Duration returns the whole seconds between start and now, rounded down.
// A start in the future yields a negative value.
func Duration(start, now time.Time) int {
	return int(now.Sub(start) / time.Second)
}
