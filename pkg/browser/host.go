// Package browser defines what the agent needs from the page it runs in.
//
// A Host exposes the navigation context, the two storage scopes, the
// unload-safe beacon and the lifecycle signals of a document. The wasm build
// binds it to the real DOM; package headless provides a scriptable page for
// tests and the simulator.
package browser

import (
	"github.com/dmitrymomot/senzor/pkg/event"
	"github.com/dmitrymomot/senzor/pkg/session"
	"github.com/dmitrymomot/senzor/pkg/transport"
)

// Host is a document the agent can be installed into.
type Host interface {
	event.Page

	// DurableStorage outlives the tab (localStorage).
	DurableStorage() session.Scope
	// SessionStorage lives as long as the tab (sessionStorage).
	SessionStorage() session.Scope
	// Beacon returns nil when the platform has no unload-safe queue.
	Beacon() transport.Beacon

	// InterceptNavigation wraps programmatic history pushes. The handler
	// must call next exactly once to let the navigation happen.
	InterceptNavigation(handler func(next func()))
	// OnPopState fires after back/forward navigation.
	OnPopState(handler func())
	// OnVisibilityChange fires when the document is hidden or shown again.
	OnVisibilityChange(handler func(hidden bool))
	// OnPageHide fires when the document is being torn down.
	OnPageHide(handler func())
}
