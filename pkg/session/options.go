package session

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/senzor/pkg/identifier"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithScopes sets the durable and ephemeral storage scopes. Nil keeps the in-memory default.
func WithScopes(durable, ephemeral Scope) Option {
	return func(m *Manager) {
		m.durable = durable
		m.ephemeral = ephemeral
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithSessionTimeout sets the inactivity timeout
func WithSessionTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.config.SessionTimeout = d
	}
}

// WithGenerator sets the identifier generator
func WithGenerator(gen identifier.Generator) Option {
	return func(m *Manager) {
		if gen != nil {
			m.generate = gen
		}
	}
}

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}
