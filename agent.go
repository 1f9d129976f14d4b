package senzor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/senzor/pkg/browser"
	"github.com/dmitrymomot/senzor/pkg/event"
	"github.com/dmitrymomot/senzor/pkg/identifier"
	"github.com/dmitrymomot/senzor/pkg/logger"
	"github.com/dmitrymomot/senzor/pkg/session"
	"github.com/dmitrymomot/senzor/pkg/statemachine"
	"github.com/dmitrymomot/senzor/pkg/transport"
)

// Lifecycle states.
const (
	StateUninitialized statemachine.State = "uninitialized"
	StateInitializing  statemachine.State = "initializing"
	StateActive        statemachine.State = "active"
)

const (
	eventInit  statemachine.Event = "init"
	eventReady statemachine.Event = "ready"
)

// Agent tracks one document.
type Agent struct {
	host browser.Host
	fsm  *statemachine.Machine

	base          *slog.Logger
	log           *slog.Logger
	now           func() time.Time
	generate      identifier.Generator
	sessionConfig session.Config
	transportOpts []transport.Option

	// mu serializes Init and host signals.
	mu        sync.Mutex
	ctx       context.Context
	config    Config
	sessions  *session.Manager
	builder   *event.Builder
	sender    *transport.Sender
	startTime time.Time
}

// New creates an uninitialized agent for host.
func New(host browser.Host, opts ...Option) *Agent {
	a := &Agent{
		host:          host,
		now:           time.Now,
		generate:      identifier.New,
		sessionConfig: session.DefaultConfig(),
	}
	a.fsm = statemachine.MustNew(StateUninitialized,
		statemachine.WithTransition(StateUninitialized, StateInitializing, eventInit,
			statemachine.WithGuard(a.acceptable),
		),
		statemachine.WithTransition(StateInitializing, StateActive, eventReady,
			statemachine.WithAction(a.listen),
		),
	)
	for _, opt := range opts {
		opt(a)
	}
	a.base = logger.OrDiscard(a.log)
	a.log = a.base.With(logger.Component("senzor"))
	return a
}

// State returns the lifecycle state.
func (a *Agent) State() statemachine.State {
	return a.fsm.Current()
}

// Config returns the configuration accepted by Init.
func (a *Agent) Config() Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.config
}

// Init validates cfg, sends the first pageview and starts listening to the
// host. Only the first successful call has any effect.
func (a *Agent) Init(ctx context.Context, cfg Config) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
			a.log.ErrorContext(ctx, "initialization panicked", logger.Error(err))
		}
	}()

	a.mu.Lock()
	defer a.mu.Unlock()

	err = a.fsm.Fire(ctx, eventInit, cfg)
	switch {
	case statemachine.IsNoTransitionAvailableError(err):
		a.log.WarnContext(ctx, "already initialized", logger.State(a.fsm.Current().String()))
		return ErrAlreadyInitialized
	case statemachine.IsTransitionRejectedError(err):
		err = a.configError(cfg)
		a.log.ErrorContext(ctx, "initialization refused", logger.Error(err))
		return err
	case err != nil:
		return err
	}

	if err := a.start(ctx, cfg.withDefaults()); err != nil {
		a.log.ErrorContext(ctx, "initialization aborted", logger.Error(err))
		a.fsm.Reset()
		return err
	}

	return a.fsm.Fire(ctx, eventReady, nil)
}

// acceptable guards the init transition.
func (a *Agent) acceptable(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
	cfg, _ := data.(Config)
	return a.configError(cfg) == nil
}

func (a *Agent) configError(cfg Config) error {
	if a.host == nil {
		return ErrNoHost
	}
	if cfg.WebID == "" {
		return ErrMissingWebID
	}
	return nil
}

func (a *Agent) start(ctx context.Context, cfg Config) error {

	log := a.base.With(logger.WebID(cfg.WebID))

	opts := append([]transport.Option{transport.WithLogger(log)}, a.transportOpts...)
	sender, err := transport.NewSender(cfg.Endpoint, a.host.Beacon(), opts...)
	if err != nil {
		return err
	}

	a.sessions = session.New(
		session.WithScopes(a.host.DurableStorage(), a.host.SessionStorage()),
		session.WithConfig(a.sessionConfig),
		session.WithClock(a.now),
		session.WithGenerator(a.generate),
		session.WithLogger(log),
	)
	a.builder = event.NewBuilder(cfg.WebID, a.host, a.sessions, event.WithClock(a.now))
	a.sender = sender
	a.config = cfg
	a.log = log.With(logger.Component("senzor"))
	a.ctx = context.WithoutCancel(ctx)

	a.pageview(a.ctx)
	return nil
}

// listen subscribes to host signals once the agent becomes active.
func (a *Agent) listen(ctx context.Context, _, _ statemachine.State, _ any) error {
	a.host.InterceptNavigation(a.onNavigate)
	a.host.OnPopState(a.onPopState)
	a.host.OnVisibilityChange(a.onVisibilityChange)
	a.host.OnPageHide(a.onPageHide)

	a.log.DebugContext(ctx, "agent initialized", logger.Endpoint(a.config.Endpoint))
	return nil
}

// Identity returns the stored identity without extending the session.
func (a *Agent) Identity(ctx context.Context) (session.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sessions == nil || !a.fsm.Is(StateActive) {
		return session.Identity{}, ErrNotInitialized
	}
	store := a.sessions.Store()
	id := session.Identity{
		VisitorID: store.VisitorID(ctx),
		SessionID: store.SessionID(ctx),
		Referrer:  store.Referrer(ctx),
	}
	if id.Referrer == "" {
		id.Referrer = session.Direct
	}
	return id, nil
}

// Flush waits for fallback deliveries still in flight.
func (a *Agent) Flush(ctx context.Context) error {
	a.mu.Lock()
	sender := a.sender
	a.mu.Unlock()
	if sender == nil {
		return nil
	}
	return sender.Wait(ctx)
}

// pageview sends a pageview and restarts the page timer. Callers hold mu.
func (a *Agent) pageview(ctx context.Context) {
	p := a.builder.BuildPageview(ctx)
	a.startTime = a.now()
	a.send(ctx, p)
}

// ping closes the current page's duration. Callers hold mu.
func (a *Agent) ping(ctx context.Context) {
	p, ok := a.builder.BuildPing(ctx, a.startTime)
	if !ok {
		return
	}
	a.send(ctx, p)
}

func (a *Agent) send(ctx context.Context, p event.Payload) {
	ctx = session.WithIdentity(ctx, session.Identity{
		VisitorID: p.VisitorID,
		SessionID: p.SessionID,
		Referrer:  p.Referrer,
	})
	a.log.DebugContext(ctx, "sending event",
		logger.EventType(string(p.Type)),
		slog.String("path", p.Path),
		slog.Int("duration", p.Duration),
	)
	a.sender.Send(ctx, p)
}

// dispatch runs fn for a host signal under mu and swallows panics.
func (a *Agent) dispatch(signal string, fn func(ctx context.Context)) {
	ctx := a.ctx
	defer func() {
		if r := recover(); r != nil {
			a.log.ErrorContext(ctx, "signal handler panicked",
				slog.String("signal", signal),
				logger.Error(fmt.Errorf("%w: %v", ErrPanic, r)),
			)
		}
	}()

	a.mu.Lock()
	defer a.mu.Unlock()
	fn(ctx)
}

// onNavigate wraps a history push. next runs outside mu so the host can
// dispatch nested signals from it.
func (a *Agent) onNavigate(next func()) {
	a.dispatch("navigate", a.ping)
	next()
	a.dispatch("navigate", a.pageview)
}

func (a *Agent) onPopState() {
	a.dispatch("popstate", func(ctx context.Context) {
		a.ping(ctx)
		a.pageview(ctx)
	})
}

func (a *Agent) onVisibilityChange(hidden bool) {
	if hidden {
		a.dispatch("hidden", a.ping)
		return
	}
	a.dispatch("visible", func(ctx context.Context) {
		a.startTime = a.now()
		a.sessions.Ensure(ctx, session.Visit{
			Referrer: a.host.Referrer(),
			Host:     a.host.Host(),
		})
	})
}

func (a *Agent) onPageHide() {
	a.dispatch("pagehide", a.ping)
}
