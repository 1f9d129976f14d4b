package senzor

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/senzor/pkg/identifier"
	"github.com/dmitrymomot/senzor/pkg/session"
	"github.com/dmitrymomot/senzor/pkg/transport"
)

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the diagnostic channel. Components log through it too.
func WithLogger(log *slog.Logger) Option {
	return func(a *Agent) {
		a.log = log
	}
}

// WithClock sets the time source for session expiry and ping durations.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) {
		if now != nil {
			a.now = now
		}
	}
}

// WithGenerator sets the visitor and session ID generator.
func WithGenerator(gen identifier.Generator) Option {
	return func(a *Agent) {
		if gen != nil {
			a.generate = gen
		}
	}
}

// WithSessionConfig overrides the session timeout and storage key prefix.
func WithSessionConfig(cfg session.Config) Option {
	return func(a *Agent) {
		a.sessionConfig = cfg
	}
}

// WithTransportOptions passes options to the payload sender.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(a *Agent) {
		a.transportOpts = append(a.transportOpts, opts...)
	}
}
