// Package dom binds browser.Host to the real browser through syscall/js.
//
// It is only built for GOOS=js GOARCH=wasm. Storage maps to localStorage and
// sessionStorage, the beacon to navigator.sendBeacon, navigation
// interception to a wrapper around history.pushState, and lifecycle signals to
// popstate, visibilitychange and pagehide listeners.
//
// Every call into JavaScript is guarded: exceptions such as a SecurityError
// from storage in a sandboxed iframe become Go errors or zero values and never
// reach the page.
package dom
