package session

import "context"

// Scope is one key-value persistence scope (durable or ephemeral).
type Scope interface {
	// Get returns the stored value, or "" with a nil error when the key is absent
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}
