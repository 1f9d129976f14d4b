package session

import (
	"context"
	"sync"
)

// MemoryScope implements Scope with a concurrent map.
// It backs the ephemeral scope of headless hosts and is the default for both scopes.
type MemoryScope struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryScope() *MemoryScope {
	return &MemoryScope{values: make(map[string]string)}
}

func (s *MemoryScope) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

func (s *MemoryScope) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryScope) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Clear drops every key, like a browser discarding sessionStorage on tab close.
func (s *MemoryScope) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
}

// Len returns the number of stored keys.
func (s *MemoryScope) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
