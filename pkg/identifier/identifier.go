package identifier

import (
	"crypto/rand"
	"io"
	randv2 "math/rand/v2"

	"github.com/google/uuid"
)

// Generator produces a new unique identifier on each call.
type Generator func() string

const (
	template = "xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx"
	hexChars = "0123456789abcdef"
)

// New returns a random version 4 UUID string.
func New() string {
	return FromReader(rand.Reader)
}

// FromReader builds a version 4 UUID from r.
// Falls back to Pseudo when r cannot supply enough bytes.
func FromReader(r io.Reader) string {
	if r == nil {
		return Pseudo()
	}
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return Pseudo()
	}
	return id.String()
}

// Pseudo fills the RFC 4122 v4 template with pseudo-random hex digits.
// The 'y' position is restricted to 8, 9, a or b to keep the variant bits valid.
func Pseudo() string {
	out := []byte(template)
	for i, c := range out {
		switch c {
		case 'x':
			out[i] = hexChars[randv2.IntN(16)]
		case 'y':
			out[i] = hexChars[8+randv2.IntN(4)]
		}
	}
	return string(out)
}
