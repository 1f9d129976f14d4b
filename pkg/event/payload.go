package event

// Type discriminates payloads on the wire.
type Type string

const (
	TypePageview Type = "pageview"
	TypePing     Type = "ping"
)

// Payload is one tracked event as serialized to the ingestion endpoint.
type Payload struct {
	Type      Type   `json:"type"`
	WebID     string `json:"webId"`
	VisitorID string `json:"visitorId"`
	SessionID string `json:"sessionId"`
	Referrer  string `json:"referrer"`
	URL       string `json:"url"`
	Path      string `json:"path"`
	Title     string `json:"title"`
	Width     int    `json:"width"`
	Timezone  string `json:"timezone"`

	// Duration is the dwell time in whole seconds, set only on pings.
	Duration int `json:"duration,omitempty"`
}

// IsPing reports whether p reports a dwell time.
func (p Payload) IsPing() bool {
	return p.Type == TypePing
}
