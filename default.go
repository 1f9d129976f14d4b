package senzor

import (
	"context"
	"sync"
)

var (
	defaultMu    sync.RWMutex
	defaultAgent *Agent
)

// Default returns the agent registered with SetDefault, or nil.
func Default() *Agent {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultAgent
}

// SetDefault registers the process-wide agent.
func SetDefault(a *Agent) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultAgent = a
}

// Init initializes the default agent.
func Init(ctx context.Context, cfg Config) error {
	a := Default()
	if a == nil {
		return ErrNoHost
	}
	return a.Init(ctx, cfg)
}
