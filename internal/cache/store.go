// Package cache provides the content-addressed result cache. A raw
// byte Store sits underneath; the typed Cache on top handles hashing,
// serialization, and corruption self-healing.
package cache

import (
	"encoding/hex"
	"fmt"
)

// ContentHash is the 256-bit key of every cache entry and Merkle node.
type ContentHash [32]byte

// Hex returns the lowercase hex form of the hash.
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// ParseHex decodes a 64-character hex string into a ContentHash.
func ParseHex(s string) (ContentHash, error) {
	var h ContentHash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid content hash %q: %w", s, err)
	}
	if len(b) != len(h) {
		return h, fmt.Errorf("invalid content hash length %d", len(b))
	}
	copy(h[:], b)
	return h, nil
}

// Namespace separates the three entry kinds sharing one store.
type Namespace string

const (
	// NSReport holds whole-file analysis reports.
	NSReport Namespace = "report"
	// NSSymbols holds per-symbol report lists.
	NSSymbols Namespace = "symbols"
	// NSDir holds rolled-up directory aggregates.
	NSDir Namespace = "dir"
)

// Namespaces lists every namespace a store must serve.
var Namespaces = []Namespace{NSReport, NSSymbols, NSDir}

// Store is a keyed byte store. Get returning ok=false means a miss;
// implementations never interpret values. Puts must be atomic per key
// so concurrent processes only ever race full values against each
// other.
type Store interface {
	Get(ns Namespace, key ContentHash) (value []byte, ok bool, err error)
	Put(ns Namespace, key ContentHash, value []byte) error
	Delete(ns Namespace, key ContentHash) error
	Count(ns Namespace) (int, error)
	Clear() error
	Close() error
}
