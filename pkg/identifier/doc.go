// Package identifier generates the random identifiers used for visitor and
// session IDs.
//
// New returns a version 4 UUID built from crypto/rand through
// github.com/google/uuid. When the entropy source is unavailable (some
// sandboxed runtimes refuse to hand out secure random bytes) the generator
// falls back to Pseudo, which fills the RFC 4122 template
// "xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx" from math/rand/v2. Pseudo output is
// shaped like a UUID but carries no cryptographic guarantee.
//
// # Usage
//
//	import "github.com/dmitrymomot/senzor/pkg/identifier"
//
//	vid := identifier.New()
//
// Components that need deterministic identifiers in tests accept a Generator:
//
//	var gen identifier.Generator = identifier.New
package identifier
