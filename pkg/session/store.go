package session

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrymomot/senzor/pkg/logger"
)

// Key is a logical storage key; the physical key carries the configured prefix.
type Key string

const (
	KeyVisitorID    Key = "vid"
	KeyLastActivity Key = "last_activity"
	KeySessionID    Key = "sid"
	KeyReferrer     Key = "ref"
)

// Durable reports whether k lives in the durable scope.
func (k Key) Durable() bool {
	return k == KeyVisitorID || k == KeyLastActivity
}

// Store gives typed access to identity state spread over two scopes.
// None of its methods fail: reads fall back to "" and failed writes are kept
// in an in-memory overlay so the current page keeps a consistent view.
type Store struct {
	durable   Scope
	ephemeral Scope
	prefix    string
	log       *slog.Logger

	mu      sync.Mutex
	overlay map[Key]string
}

// NewStore wraps the two scopes. Nil scopes are replaced by MemoryScope.
func NewStore(durable, ephemeral Scope, prefix string, log *slog.Logger) *Store {
	if durable == nil {
		durable = NewMemoryScope()
	}
	if ephemeral == nil {
		ephemeral = NewMemoryScope()
	}
	return &Store{
		durable:   durable,
		ephemeral: ephemeral,
		prefix:    prefix,
		log:       logger.OrDiscard(log).With(logger.Component("session.store")),
		overlay:   make(map[Key]string),
	}
}

// PhysicalKey returns the key as written to the scope.
func (s *Store) PhysicalKey(k Key) string {
	return s.prefix + string(k)
}

func (s *Store) scope(k Key) Scope {
	if k.Durable() {
		return s.durable
	}
	return s.ephemeral
}

// Get returns the value for k or "" when absent or unreadable.
func (s *Store) Get(ctx context.Context, k Key) string {
	s.mu.Lock()
	v, ok := s.overlay[k]
	s.mu.Unlock()
	if ok {
		return v
	}

	v, err := s.scope(k).Get(ctx, s.PhysicalKey(k))
	if err != nil {
		s.log.DebugContext(ctx, "storage read failed",
			logger.StorageKey(s.PhysicalKey(k)),
			logger.Error(err),
		)
		return ""
	}
	return v
}

// Has reports whether k holds a non-empty value.
func (s *Store) Has(ctx context.Context, k Key) bool {
	return s.Get(ctx, k) != ""
}

// Set writes v under k. A failed write is kept in memory only.
func (s *Store) Set(ctx context.Context, k Key, v string) {
	err := s.scope(k).Set(ctx, s.PhysicalKey(k), v)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.overlay[k] = v
		s.log.WarnContext(ctx, "storage write failed, keeping value in memory",
			logger.StorageKey(s.PhysicalKey(k)),
			logger.Error(err),
		)
		return
	}
	delete(s.overlay, k)
}

// Delete removes k. A failed delete hides the key for the rest of the page lifetime.
func (s *Store) Delete(ctx context.Context, k Key) {
	err := s.scope(k).Delete(ctx, s.PhysicalKey(k))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.overlay[k] = ""
		s.log.WarnContext(ctx, "storage delete failed",
			logger.StorageKey(s.PhysicalKey(k)),
			logger.Error(err),
		)
		return
	}
	delete(s.overlay, k)
}

func (s *Store) VisitorID(ctx context.Context) string        { return s.Get(ctx, KeyVisitorID) }
func (s *Store) SetVisitorID(ctx context.Context, id string) { s.Set(ctx, KeyVisitorID, id) }
func (s *Store) HasVisitorID(ctx context.Context) bool       { return s.Has(ctx, KeyVisitorID) }

func (s *Store) SessionID(ctx context.Context) string        { return s.Get(ctx, KeySessionID) }
func (s *Store) SetSessionID(ctx context.Context, id string) { s.Set(ctx, KeySessionID, id) }
func (s *Store) HasSessionID(ctx context.Context) bool       { return s.Has(ctx, KeySessionID) }

func (s *Store) Referrer(ctx context.Context) string         { return s.Get(ctx, KeyReferrer) }
func (s *Store) SetReferrer(ctx context.Context, ref string) { s.Set(ctx, KeyReferrer, ref) }

// LastActivity returns the stored activity time; ok is false when absent or malformed.
func (s *Store) LastActivity(ctx context.Context) (t time.Time, ok bool) {
	raw := s.Get(ctx, KeyLastActivity)
	if raw == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// SetLastActivity stores t as epoch milliseconds.
func (s *Store) SetLastActivity(ctx context.Context, t time.Time) {
	s.Set(ctx, KeyLastActivity, strconv.FormatInt(t.UnixMilli(), 10))
}
