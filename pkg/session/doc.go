// Package session keeps the visitor and session identity of a tracked page.
//
// Identity lives in two storage scopes supplied by the host:
//
//   - durable   – survives browser restarts (localStorage, SQLite, Redis):
//     the visitor ID and the last-activity timestamp.
//   - ephemeral – cleared when the tab or browser session ends
//     (sessionStorage, an in-memory map): the session ID and the attributed
//     referrer.
//
// Physical keys are the configured prefix ("senzor_" by default) followed by
// vid, last_activity, sid and ref. Those names are shared with future page
// loads of the same origin; changing them forgets every known visitor.
//
// # Architecture
//
//	┌────────────┐  Ensure(Visit)  ┌─────────────────────────────┐
//	│ caller     │ ──────────────► │           Manager           │
//	└────────────┘    Identity     │ expiry · rotation · referrer│
//	                               └─────────────────────────────┘
//	                                              │ typed get/set
//	                                              ▼
//	                               ┌─────────────────────────────┐
//	                               │ Store (+ in-memory overlay) │
//	                               └─────────────────────────────┘
//	                                    │                    │
//	                                    ▼                    ▼
//	                             durable Scope       ephemeral Scope
//
// The Manager is called on every tracked event. It creates the visitor ID
// once, rotates the session ID when the ephemeral scope lost it or when the
// last activity is older than the session timeout (30 minutes), attributes
// the traffic source and finally extends the activity clock. There is no
// background timer: an idle tab only expires when the next event arrives.
//
// # Failure model
//
// Storage is shared with the host page and can refuse writes (quota, private
// browsing). Store never returns an error: failed reads yield the empty
// sentinel and failed writes are kept in an in-memory overlay for the rest of
// the page lifetime, then logged.
//
// # Usage
//
//	m := session.New(
//	    session.WithScopes(durable, ephemeral),
//	    session.WithLogger(log),
//	)
//	id := m.Ensure(ctx, session.Visit{Referrer: doc.Referrer, Host: loc.Host})
//	fmt.Println(id.VisitorID, id.SessionID, id.Referrer)
package session
