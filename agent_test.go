package senzor_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/senzor"
	"github.com/dmitrymomot/senzor/pkg/browser/headless"
	"github.com/dmitrymomot/senzor/pkg/event"
	"github.com/dmitrymomot/senzor/pkg/session"
	"github.com/dmitrymomot/senzor/pkg/transport"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sequence() func() string {
	var n atomic.Int32
	return func() string { return fmt.Sprintf("id-%d", n.Add(1)) }
}

func newPage(t *testing.T, opts ...headless.Option) *headless.Page {
	t.Helper()
	p, err := headless.New("https://site.example/a", append([]headless.Option{headless.WithTitle("A")}, opts...)...)
	require.NoError(t, err)
	return p
}

func newAgent(page *headless.Page, clock *fakeClock, opts ...senzor.Option) *senzor.Agent {
	base := []senzor.Option{
		senzor.WithClock(clock.Now),
		senzor.WithGenerator(sequence()),
	}
	return senzor.New(page, append(base, opts...)...)
}

func types(payloads []event.Payload) []event.Type {
	out := make([]event.Type, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, p.Type)
	}
	return out
}

func TestInit_FreshDevice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	page := newPage(t)
	agent := newAgent(page, newFakeClock())

	require.NoError(t, agent.Init(ctx, senzor.Config{WebID: "w1"}))
	assert.Equal(t, senzor.StateActive, agent.State())
	assert.Equal(t, senzor.DefaultEndpoint, agent.Config().Endpoint)

	sent := page.Beacons()
	require.Len(t, sent, 1)
	pv := sent[0]
	assert.Equal(t, event.TypePageview, pv.Type)
	assert.Equal(t, "w1", pv.WebID)
	assert.Equal(t, "id-1", pv.VisitorID)
	assert.Equal(t, "id-2", pv.SessionID)
	assert.Equal(t, session.Direct, pv.Referrer)
	assert.Equal(t, "https://site.example/a", pv.URL)
	assert.Equal(t, "/a", pv.Path)
	assert.Equal(t, "A", pv.Title)
	assert.Equal(t, 1280, pv.Width)
	assert.Equal(t, "UTC", pv.Timezone)
	assert.Zero(t, pv.Duration)

	id, err := agent.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Identity{VisitorID: "id-1", SessionID: "id-2", Referrer: session.Direct}, id)
}

func TestInit_HiddenTimeIsExcluded(t *testing.T) {
	t.Parallel()
	page := newPage(t)
	clock := newFakeClock()
	agent := newAgent(page, clock)
	require.NoError(t, agent.Init(context.Background(), senzor.Config{WebID: "w1"}))

	clock.Advance(45 * time.Second)
	page.Hide()
	clock.Advance(5 * time.Minute)
	page.Show()
	clock.Advance(10 * time.Second)
	page.Close()

	sent := page.Beacons()
	require.Equal(t, []event.Type{event.TypePageview, event.TypePing, event.TypePing}, types(sent))
	assert.Equal(t, 45, sent[1].Duration)
	assert.Equal(t, 10, sent[2].Duration)
	assert.Equal(t, sent[0].SessionID, sent[2].SessionID)
}

func TestInit_RouteChangeOrdersPingBeforePageview(t *testing.T) {
	t.Parallel()
	page := newPage(t)
	clock := newFakeClock()
	agent := newAgent(page, clock)
	require.NoError(t, agent.Init(context.Background(), senzor.Config{WebID: "w1"}))

	clock.Advance(12 * time.Second)
	require.NoError(t, page.Navigate("/b", "B"))

	sent := page.Beacons()
	require.Equal(t, []event.Type{event.TypePageview, event.TypePing, event.TypePageview}, types(sent))
	assert.Equal(t, "/a", sent[1].Path)
	assert.Equal(t, 12, sent[1].Duration)
	assert.Equal(t, "/b", sent[2].Path)
	assert.Equal(t, "B", sent[2].Title)

	clock.Advance(3 * time.Second)
	require.True(t, page.Back())

	sent = page.Beacons()
	require.Len(t, sent, 5)
	assert.Equal(t, event.TypePing, sent[3].Type)
	assert.Equal(t, "/b", sent[3].Path)
	assert.Equal(t, 3, sent[3].Duration)
	assert.Equal(t, event.TypePageview, sent[4].Type)
	assert.Equal(t, "/a", sent[4].Path)
}

func TestInit_QuickNavigationSkipsPing(t *testing.T) {
	t.Parallel()
	page := newPage(t)
	clock := newFakeClock()
	agent := newAgent(page, clock)
	require.NoError(t, agent.Init(context.Background(), senzor.Config{WebID: "w1"}))

	clock.Advance(500 * time.Millisecond)
	require.NoError(t, page.Navigate("/b", "B"))

	assert.Equal(t, []event.Type{event.TypePageview, event.TypePageview}, types(page.Beacons()))
}

func TestInit_ExternalReferrer(t *testing.T) {
	t.Parallel()
	page := newPage(t, headless.WithReferrer("https://search.example/q=x"))
	agent := newAgent(page, newFakeClock())
	require.NoError(t, agent.Init(context.Background(), senzor.Config{WebID: "w1"}))

	sent := page.Beacons()
	require.Len(t, sent, 1)
	assert.Equal(t, "search.example/q=x", sent[0].Referrer)

	id, err := agent.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "search.example/q=x", id.Referrer)
}

func TestInit_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	page := newPage(t)
	clock := newFakeClock()
	agent := newAgent(page, clock)

	require.NoError(t, agent.Init(ctx, senzor.Config{WebID: "w1"}))
	first, err := agent.Identity(ctx)
	require.NoError(t, err)

	clock.Advance(20 * time.Second)
	err = agent.Init(ctx, senzor.Config{WebID: "w2", Endpoint: "https://other.example/in"})
	assert.ErrorIs(t, err, senzor.ErrAlreadyInitialized)

	second, err := agent.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "w1", agent.Config().WebID)
	assert.Len(t, page.Beacons(), 1)

	// Listeners are registered once: one hide produces one ping.
	page.Hide()
	sent := page.Beacons()
	require.Len(t, sent, 2)
	assert.Equal(t, 20, sent[1].Duration)
	assert.Equal(t, "w1", sent[1].WebID)
}

func TestInit_MissingWebID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	page := newPage(t)
	agent := newAgent(page, newFakeClock())

	err := agent.Init(ctx, senzor.Config{})
	assert.ErrorIs(t, err, senzor.ErrMissingWebID)
	assert.Equal(t, senzor.StateUninitialized, agent.State())
	assert.Empty(t, page.Beacons())

	_, err = agent.Identity(ctx)
	assert.ErrorIs(t, err, senzor.ErrNotInitialized)

	vid, _ := page.DurableStorage().Get(ctx, "senzor_vid")
	assert.Empty(t, vid, "a rejected init must not touch storage")

	require.NoError(t, agent.Init(ctx, senzor.Config{WebID: "w1"}))
	assert.Len(t, page.Beacons(), 1)
}

func TestInit_InvalidEndpoint(t *testing.T) {
	t.Parallel()
	page := newPage(t)
	agent := newAgent(page, newFakeClock())

	err := agent.Init(context.Background(), senzor.Config{WebID: "w1", Endpoint: "ftp://nope"})
	assert.ErrorIs(t, err, transport.ErrInvalidEndpoint)
	assert.Equal(t, senzor.StateUninitialized, agent.State())
}

func TestInit_ListenersOnlyAfterActivation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	page := newPage(t)
	clock := newFakeClock()
	agent := newAgent(page, clock)

	require.Error(t, agent.Init(ctx, senzor.Config{WebID: "w1", Endpoint: "ftp://nope"}))
	clock.Advance(5 * time.Second)
	page.Hide()
	page.Show()
	assert.Empty(t, page.Beacons())

	require.NoError(t, agent.Init(ctx, senzor.Config{WebID: "w1"}))
	assert.Equal(t, senzor.StateActive, agent.State())
	clock.Advance(5 * time.Second)
	page.Hide()

	sent := page.Beacons()
	require.Len(t, sent, 2)
	assert.Equal(t, []event.Type{event.TypePageview, event.TypePing}, types(sent))
	assert.Equal(t, 5, sent[1].Duration)
}

func TestInit_NoHost(t *testing.T) {
	t.Parallel()
	agent := senzor.New(nil)
	assert.ErrorIs(t, agent.Init(context.Background(), senzor.Config{WebID: "w1"}), senzor.ErrNoHost)
}

func TestVisibility_RevalidatesSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	page := newPage(t)
	clock := newFakeClock()
	agent := newAgent(page, clock)
	require.NoError(t, agent.Init(ctx, senzor.Config{WebID: "w1"}))
	before, err := agent.Identity(ctx)
	require.NoError(t, err)

	page.Hide()
	clock.Advance(31 * time.Minute)
	page.Show()

	after, err := agent.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.VisitorID, after.VisitorID)
	assert.NotEqual(t, before.SessionID, after.SessionID)

	clock.Advance(4 * time.Second)
	page.Close()
	sent := page.Beacons()
	last := sent[len(sent)-1]
	assert.Equal(t, event.TypePing, last.Type)
	assert.Equal(t, 4, last.Duration)
	assert.Equal(t, after.SessionID, last.SessionID)
}

func TestSession_SurvivesReloadButNotTabClose(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clock := newFakeClock()
	gen := senzor.WithGenerator(sequence())
	durable := session.NewMemoryScope()
	tab := session.NewMemoryScope()

	open := func() (*headless.Page, *senzor.Agent) {
		page := newPage(t, headless.WithDurableStorage(durable), headless.WithSessionStorage(tab))
		agent := newAgent(page, clock, gen)
		require.NoError(t, agent.Init(ctx, senzor.Config{WebID: "w1"}))
		return page, agent
	}

	page, first := open()
	firstID, _ := first.Identity(ctx)
	clock.Advance(time.Minute)
	page.Close()

	page, second := open()
	secondID, _ := second.Identity(ctx)
	assert.Equal(t, firstID, secondID, "reload keeps the session")

	page.CloseTab()
	_, third := open()
	thirdID, _ := third.Identity(ctx)
	assert.Equal(t, firstID.VisitorID, thirdID.VisitorID)
	assert.NotEqual(t, firstID.SessionID, thirdID.SessionID)
}

type panickyPage struct {
	*headless.Page
	armed atomic.Bool
}

func (p *panickyPage) Title() string {
	if p.armed.Load() {
		panic("title unavailable")
	}
	return p.Page.Title()
}

func TestSignals_RecoverPanics(t *testing.T) {
	t.Parallel()
	page := &panickyPage{Page: newPage(t)}
	clock := newFakeClock()
	agent := senzor.New(page, senzor.WithClock(clock.Now))
	require.NoError(t, agent.Init(context.Background(), senzor.Config{WebID: "w1"}))

	page.armed.Store(true)
	clock.Advance(5 * time.Second)

	require.NotPanics(t, func() {
		require.NoError(t, page.Navigate("/b", "B"))
		page.Hide()
		page.Close()
	})
	assert.Equal(t, "/b", page.Path(), "navigation must still happen")
	assert.Len(t, page.Beacons(), 1)
}

func TestInit_RecoversPanic(t *testing.T) {
	t.Parallel()
	page := &panickyPage{Page: newPage(t)}
	page.armed.Store(true)
	agent := senzor.New(page)

	var err error
	require.NotPanics(t, func() {
		err = agent.Init(context.Background(), senzor.Config{WebID: "w1"})
	})
	assert.ErrorIs(t, err, senzor.ErrPanic)
}

func TestInit_FallbackWithoutBeacon(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(raw))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	page := newPage(t, headless.WithoutBeacon())
	clock := newFakeClock()
	agent := newAgent(page, clock)
	require.NoError(t, agent.Init(context.Background(), senzor.Config{WebID: "w1", Endpoint: srv.URL}))

	clock.Advance(2 * time.Second)
	page.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, agent.Flush(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	joined := bodies[0] + bodies[1]
	assert.Contains(t, joined, `"type":"pageview"`)
	assert.Contains(t, joined, `"duration":2`)
}
