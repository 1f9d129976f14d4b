package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrymomot/senzor/pkg/session"
)

var errQuotaExceeded = errors.New("QuotaExceededError")

// brokenScope refuses every operation, like storage in strict private browsing.
type brokenScope struct{}

func (brokenScope) Get(context.Context, string) (string, error) { return "", errQuotaExceeded }
func (brokenScope) Set(context.Context, string, string) error   { return errQuotaExceeded }
func (brokenScope) Delete(context.Context, string) error        { return errQuotaExceeded }

// countingScope is a MemoryScope that counts writes per key.
type countingScope struct {
	*session.MemoryScope

	mu   sync.Mutex
	sets map[string]int
}

func newCountingScope() *countingScope {
	return &countingScope{MemoryScope: session.NewMemoryScope(), sets: make(map[string]int)}
}

func (s *countingScope) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.sets[key]++
	s.mu.Unlock()
	return s.MemoryScope.Set(ctx, key, value)
}

func (s *countingScope) writes(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets[key]
}

// fakeClock is a manually advanced time source.
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

// sequence returns a generator yielding id-1, id-2, ...
func sequence() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
