// Package transport delivers event payloads to the ingestion endpoint.
//
// Delivery is best effort and never blocks the caller. Each payload gets at
// most one attempt per tier:
//
//  1. The host beacon (navigator.sendBeacon in browsers) is tried first. It
//     queues the request in a way that survives page teardown. A true return
//     ends delivery.
//  2. When no beacon exists or it refuses the payload, a JSON POST is started
//     in a background goroutine. The request is detached from the caller's
//     cancellation and bounded by a grace period.
//
// Fallback failures are logged and the payload is dropped. There are no
// retries and no local queue. A circuit breaker guards the fallback tier so a
// consistently failing endpoint drops payloads immediately instead of holding
// connections open.
//
// # Usage
//
//	s, err := transport.NewSender(endpoint, host.Beacon(),
//		transport.WithLogger(log),
//		transport.WithGracePeriod(5*time.Second),
//	)
//	if err != nil {
//		return err
//	}
//	s.Send(ctx, payload)
//
// # Observing delivery
//
// WithOnDelivery registers a hook called once per fallback request with a
// DeliveryResult. Wait blocks until in-flight fallback requests finish and is
// meant for short-lived processes such as CLIs that must not exit early.
package transport
