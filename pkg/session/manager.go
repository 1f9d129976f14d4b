package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/senzor/pkg/identifier"
	"github.com/dmitrymomot/senzor/pkg/logger"
)

// Manager decides on every tracked event whether the current session is
// still live and which traffic source it is attributed to.
type Manager struct {
	store     *Store
	durable   Scope
	ephemeral Scope
	config    Config
	generate  identifier.Generator
	now       func() time.Time
	log       *slog.Logger
}

// New creates a session manager with the given options.
// Without WithScopes both scopes are in-memory.
func New(opts ...Option) *Manager {
	m := &Manager{
		config:   DefaultConfig(),
		generate: identifier.New,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.config.SessionTimeout <= 0 {
		m.config.SessionTimeout = DefaultConfig().SessionTimeout
	}
	if m.config.KeyPrefix == "" {
		m.config.KeyPrefix = DefaultConfig().KeyPrefix
	}

	m.log = logger.OrDiscard(m.log)
	m.store = NewStore(m.durable, m.ephemeral, m.config.KeyPrefix, m.log)
	m.log = m.log.With(logger.Component("session"))

	return m
}

// Store exposes the underlying typed store.
func (m *Manager) Store() *Store {
	return m.store
}

// Config returns the effective configuration.
func (m *Manager) Config() Config {
	return m.config
}

// Ensure validates or rotates the session and returns the current identity.
// It is safe to call on every event; each call extends the activity clock.
func (m *Manager) Ensure(ctx context.Context, v Visit) Identity {
	now := m.now()

	visitorID := m.store.VisitorID(ctx)
	if visitorID == "" {
		visitorID = m.generate()
		m.store.SetVisitorID(ctx, visitorID)
	}

	sessionID := m.store.SessionID(ctx)
	newSession := sessionID == "" || m.expired(ctx, now)
	if newSession {
		sessionID = m.generate()
		m.store.SetSessionID(ctx, sessionID)
	}

	m.attribute(ctx, v, newSession)
	m.store.SetLastActivity(ctx, now)

	referrer := m.store.Referrer(ctx)
	if referrer == "" {
		referrer = Direct
	}

	id := Identity{
		VisitorID:  visitorID,
		SessionID:  sessionID,
		Referrer:   referrer,
		NewSession: newSession,
	}
	if newSession {
		m.log.DebugContext(ctx, "session started",
			logger.VisitorID(id.VisitorID),
			logger.SessionID(id.SessionID),
			slog.String("referrer", id.Referrer),
		)
	}
	return id
}

// expired reports whether the gap since the last activity exceeds the timeout.
// A missing or unreadable timestamp counts as expired.
func (m *Manager) expired(ctx context.Context, now time.Time) bool {
	last, ok := m.store.LastActivity(ctx)
	if !ok {
		return true
	}
	return now.Sub(last) > m.config.SessionTimeout
}

// attribute records the session's traffic source.
// External referrers overwrite the stored one only when it changed; a new
// session without any source is marked Direct; ongoing sessions navigating
// internally keep what they have.
func (m *Manager) attribute(ctx context.Context, v Visit, newSession bool) {
	stored := m.store.Referrer(ctx)

	if ref, external := Attribute(v.Referrer, v.Host); external {
		if ref != stored {
			m.store.SetReferrer(ctx, ref)
		}
		return
	}

	if newSession && stored == "" {
		m.store.SetReferrer(ctx, Direct)
	}
}
