// Package event assembles the payloads reported to the ingestion endpoint.
//
// Two event types exist. A pageview is sent when a page becomes the current
// route; a ping reports how many whole seconds the visitor spent on the page
// being left. Every payload carries the site identifier, the identity triple
// resolved by the session manager and the current navigation context.
//
// # Usage
//
//	b := event.NewBuilder("w1", page, sessions)
//	pv := b.BuildPageview(ctx)
//
//	if ping, ok := b.BuildPing(ctx, startedAt); ok {
//		sender.Send(ctx, ping)
//	}
//
// BuildPing reports false for dwell times under one second; such pings are
// never sent.
package event
