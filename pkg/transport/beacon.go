package transport

// Beacon is an unload-safe, fire-and-forget request queue.
type Beacon interface {
	// SendBeacon queues a POST of body to url and reports whether the
	// platform accepted it. Acceptance says nothing about delivery.
	SendBeacon(url, contentType string, body []byte) bool
}

// BeaconFunc adapts a function to the Beacon interface.
type BeaconFunc func(url, contentType string, body []byte) bool

// SendBeacon calls f.
func (f BeaconFunc) SendBeacon(url, contentType string, body []byte) bool {
	return f(url, contentType, body)
}
