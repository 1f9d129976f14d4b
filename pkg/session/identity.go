package session

// Direct is the referrer recorded for sessions without an external source.
const Direct = "Direct"

// Identity is the identity triple attached to every payload.
type Identity struct {
	VisitorID string `json:"visitorId"`
	SessionID string `json:"sessionId"`
	Referrer  string `json:"referrer"`

	// NewSession is true when this Ensure call started the session.
	NewSession bool `json:"-"`
}

// Visit is the navigation context needed to attribute a session.
type Visit struct {
	// Referrer is the page's incoming referrer (document.referrer); may be empty
	Referrer string

	// Host is the current page host including port (location.host)
	Host string
}
