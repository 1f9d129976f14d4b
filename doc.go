// Package senzor is a cookieless analytics agent that reports pageviews,
// sessions and time on page.
//
// An Agent is installed into a browser.Host, the document it observes. Init
// establishes the visitor and session identity, sends the first pageview and
// subscribes to the host's navigation, visibility and teardown signals. From
// then on every signal produces events without further calls:
//
//   - history push: ping for the page being left, then pageview for the new one
//   - back/forward: same as a history push
//   - tab hidden: ping
//   - tab visible again: the page timer restarts and the session is revalidated
//   - teardown: final ping
//
// A ping carries whole seconds spent on the page and is skipped below one
// second.
//
// # Usage
//
//	agent := senzor.New(host, senzor.WithLogger(log))
//	if err := agent.Init(ctx, senzor.Config{WebID: "w1"}); err != nil {
//		log.Warn("analytics disabled", logger.Error(err))
//	}
//
// Init succeeds once. Later calls return ErrAlreadyInitialized and change
// nothing. A call rejected for a missing WebID leaves the agent
// uninitialized, so it can be retried with a valid configuration.
//
// # Failure model
//
// Nothing the agent does can break the host. Storage failures degrade to
// in-memory state, delivery failures are logged and dropped, and panics in
// signal handlers are recovered and logged.
//
// # Singleton
//
// Hosts that expose a single global entry point register their agent with
// SetDefault and call the package-level Init.
package senzor
