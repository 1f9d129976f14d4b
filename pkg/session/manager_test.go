package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/senzor/pkg/session"
)

const siteHost = "site.example"

type harness struct {
	clock     *fakeClock
	durable   *session.MemoryScope
	ephemeral *session.MemoryScope
	mgr       *session.Manager
}

func newHarness(opts ...session.Option) *harness {
	h := &harness{
		clock:     newFakeClock(),
		durable:   session.NewMemoryScope(),
		ephemeral: session.NewMemoryScope(),
	}
	base := []session.Option{
		session.WithScopes(h.durable, h.ephemeral),
		session.WithClock(h.clock.Now),
		session.WithGenerator(sequence()),
	}
	h.mgr = session.New(append(base, opts...)...)
	return h
}

func visit(ref string) session.Visit {
	return session.Visit{Referrer: ref, Host: siteHost}
}

func TestManager_FirstVisit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness()

	id := h.mgr.Ensure(ctx, visit(""))

	assert.Equal(t, "id-1", id.VisitorID)
	assert.Equal(t, "id-2", id.SessionID)
	assert.Equal(t, session.Direct, id.Referrer)
	assert.True(t, id.NewSession)

	v, _ := h.durable.Get(ctx, "senzor_vid")
	assert.Equal(t, "id-1", v)
	ref, _ := h.ephemeral.Get(ctx, "senzor_ref")
	assert.Equal(t, session.Direct, ref)
	last, _ := h.durable.Get(ctx, "senzor_last_activity")
	assert.NotEmpty(t, last)
}

func TestManager_VisitorPersists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness()

	first := h.mgr.Ensure(ctx, visit(""))
	h.clock.Advance(48 * time.Hour)
	h.ephemeral.Clear()
	second := h.mgr.Ensure(ctx, visit(""))

	assert.Equal(t, first.VisitorID, second.VisitorID)
	assert.NotEqual(t, first.SessionID, second.SessionID)
}

func TestManager_SessionContinuity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("within timeout keeps session", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		first := h.mgr.Ensure(ctx, visit(""))
		h.clock.Advance(10 * time.Minute)
		second := h.mgr.Ensure(ctx, visit(""))

		assert.Equal(t, first.SessionID, second.SessionID)
		assert.False(t, second.NewSession)
	})

	t.Run("exactly at timeout keeps session", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		first := h.mgr.Ensure(ctx, visit(""))
		h.clock.Advance(30 * time.Minute)
		second := h.mgr.Ensure(ctx, visit(""))

		assert.Equal(t, first.SessionID, second.SessionID)
	})

	t.Run("activity extends the window", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		first := h.mgr.Ensure(ctx, visit(""))
		for range 5 {
			h.clock.Advance(20 * time.Minute)
			h.mgr.Ensure(ctx, visit(""))
		}
		last := h.mgr.Ensure(ctx, visit(""))
		assert.Equal(t, first.SessionID, last.SessionID)
	})

	t.Run("inactivity rotates session", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		first := h.mgr.Ensure(ctx, visit(""))
		h.clock.Advance(31 * time.Minute)
		second := h.mgr.Ensure(ctx, visit(""))

		assert.NotEqual(t, first.SessionID, second.SessionID)
		assert.Equal(t, first.VisitorID, second.VisitorID)
		assert.True(t, second.NewSession)
	})

	t.Run("closing the tab rotates session", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		first := h.mgr.Ensure(ctx, visit(""))
		h.clock.Advance(time.Minute)
		h.ephemeral.Clear()
		second := h.mgr.Ensure(ctx, visit(""))

		assert.NotEqual(t, first.SessionID, second.SessionID)
	})

	t.Run("missing activity timestamp rotates session", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		first := h.mgr.Ensure(ctx, visit(""))
		require.NoError(t, h.durable.Delete(ctx, "senzor_last_activity"))
		second := h.mgr.Ensure(ctx, visit(""))

		assert.NotEqual(t, first.SessionID, second.SessionID)
	})

	t.Run("custom timeout", func(t *testing.T) {
		t.Parallel()
		h := newHarness(session.WithSessionTimeout(time.Minute))
		first := h.mgr.Ensure(ctx, visit(""))
		h.clock.Advance(2 * time.Minute)
		second := h.mgr.Ensure(ctx, visit(""))

		assert.NotEqual(t, first.SessionID, second.SessionID)
	})
}

func TestManager_Attribution(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("external referrer is recorded without scheme", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		id := h.mgr.Ensure(ctx, visit("https://search.example/q=x"))
		assert.Equal(t, "search.example/q=x", id.Referrer)
	})

	t.Run("internal navigation keeps source", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		h.mgr.Ensure(ctx, visit("https://search.example/q=x"))
		h.clock.Advance(time.Minute)
		id := h.mgr.Ensure(ctx, visit("https://site.example/pricing"))
		assert.Equal(t, "search.example/q=x", id.Referrer)

		h.clock.Advance(time.Minute)
		id = h.mgr.Ensure(ctx, visit(""))
		assert.Equal(t, "search.example/q=x", id.Referrer)
	})

	t.Run("new external source overwrites mid session", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		first := h.mgr.Ensure(ctx, visit("https://search.example/q=x"))
		h.clock.Advance(time.Minute)
		second := h.mgr.Ensure(ctx, visit("https://news.example/story"))

		assert.Equal(t, first.SessionID, second.SessionID)
		assert.Equal(t, "news.example/story", second.Referrer)
	})

	t.Run("direct mid session stays direct on internal navigation", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		h.mgr.Ensure(ctx, visit(""))
		h.clock.Advance(time.Minute)
		id := h.mgr.Ensure(ctx, visit("https://site.example/"))
		assert.Equal(t, session.Direct, id.Referrer)
	})

	t.Run("rotated session keeps the stored source on internal navigation", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		first := h.mgr.Ensure(ctx, visit("https://search.example/q=x"))
		h.clock.Advance(31 * time.Minute)
		id := h.mgr.Ensure(ctx, visit("https://site.example/pricing"))

		assert.True(t, id.NewSession)
		assert.NotEqual(t, first.SessionID, id.SessionID)
		assert.Equal(t, "search.example/q=x", id.Referrer)
	})

	t.Run("rotated session keeps the stored source without a referrer", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		h.mgr.Ensure(ctx, visit("https://search.example/q=x"))
		h.clock.Advance(time.Hour)
		id := h.mgr.Ensure(ctx, visit(""))

		assert.True(t, id.NewSession)
		assert.Equal(t, "search.example/q=x", id.Referrer)
	})

	t.Run("rotated session takes a new external source", func(t *testing.T) {
		t.Parallel()
		h := newHarness()
		h.mgr.Ensure(ctx, visit("https://search.example/q=x"))
		h.clock.Advance(time.Hour)
		id := h.mgr.Ensure(ctx, visit("https://news.example/story"))

		assert.True(t, id.NewSession)
		assert.Equal(t, "news.example/story", id.Referrer)
	})

	t.Run("same external source is written once", func(t *testing.T) {
		t.Parallel()
		tab := newCountingScope()
		h := newHarness(session.WithScopes(session.NewMemoryScope(), tab))

		h.mgr.Ensure(ctx, visit("https://search.example/q=x"))
		h.clock.Advance(time.Minute)
		id := h.mgr.Ensure(ctx, visit("https://search.example/q=x"))

		assert.Equal(t, "search.example/q=x", id.Referrer)
		assert.Equal(t, 1, tab.writes("senzor_ref"))
	})
}

func TestManager_BrokenStorage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clock := newFakeClock()
	mgr := session.New(
		session.WithScopes(brokenScope{}, brokenScope{}),
		session.WithClock(clock.Now),
		session.WithGenerator(sequence()),
	)

	var first session.Identity
	require.NotPanics(t, func() {
		first = mgr.Ensure(ctx, visit("https://search.example/"))
	})
	assert.NotEmpty(t, first.VisitorID)
	assert.NotEmpty(t, first.SessionID)
	assert.Equal(t, "search.example/", first.Referrer)

	clock.Advance(time.Minute)
	second := mgr.Ensure(ctx, visit(""))
	assert.Equal(t, first.VisitorID, second.VisitorID)
	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestManager_Defaults(t *testing.T) {
	t.Parallel()
	mgr := session.New(session.WithConfig(session.Config{}))
	cfg := mgr.Config()
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, "senzor_", cfg.KeyPrefix)
	assert.NotNil(t, mgr.Store())

	id := mgr.Ensure(context.Background(), visit(""))
	assert.Len(t, id.VisitorID, 36)
	assert.Len(t, id.SessionID, 36)
}
