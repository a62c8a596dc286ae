// Package idgen produces the identifiers used for pages and subtree copies.
//
// Page ids must sort lexicographically in creation order so that id-based
// tie-breaks and cursor pagination stay stable; UUIDv7 gives that without
// any coordination between writers.
package idgen

import "github.com/google/uuid"

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator that produces RFC 9562 UUID v7 strings.
// v7 ids carry a millisecond timestamp in the high bits, so string
// comparison orders them by creation time.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every id.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}
