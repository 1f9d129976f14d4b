package session

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/senzor/pkg/logger"
)

type identityContextKey struct{}

// WithIdentity adds an identity to the context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// FromContext retrieves an identity from the context
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// LogExtractor adds the session ID of the identity in ctx to log records.
// It satisfies logger.ContextExtractor.
func LogExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := FromContext(ctx)
	if !ok || id.SessionID == "" {
		return slog.Attr{}, false
	}
	return logger.SessionID(id.SessionID), true
}
