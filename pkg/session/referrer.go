package session

import (
	"net/url"
	"regexp"
	"strings"
)

var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// NormalizeReferrer strips the leading "scheme://" from ref.
func NormalizeReferrer(ref string) string {
	return schemePrefix.ReplaceAllString(ref, "")
}

// Attribute classifies ref relative to the current page host.
// A non-empty referrer is external when it cannot be parsed into a URL with a
// host, or when its host differs from host; the normalized referrer is
// returned in that case. Internal and empty referrers return ("", false).
func Attribute(ref, host string) (string, bool) {
	if ref == "" {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" || !strings.EqualFold(u.Host, host) {
		return NormalizeReferrer(ref), true
	}
	return "", false
}
