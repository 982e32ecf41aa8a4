// Package merkle builds the directory hash tree and walks it
// incrementally: file hashes come from content, directory hashes from
// the sorted (name, hash) pairs of their children, and both key the
// result caches so an unchanged subtree is never re-analyzed.
package merkle

import (
	"sort"

	"vibescan/internal/cache"
	"vibescan/internal/report"
)

// Node is one directory in the hash tree.
type Node struct {
	// Name is the base name; Path is slash-relative to the walk root,
	// "." for the root itself.
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`

	// Hash covers every analyzable descendant plus the active ignore
	// ruleset and heuristics fingerprints. Equal hash means equal
	// aggregate, regardless of child order on disk.
	Hash cache.ContentHash `json:"hash" yaml:"hash"`

	// Score is the rolled-up attribution for the subtree.
	Score report.DirScore `json:"score" yaml:"score"`

	// Children holds subdirectory nodes, sorted by name.
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// childPair is one (name, hash) entry feeding a directory hash.
type childPair struct {
	name string
	hash cache.ContentHash
}

// hashChildren folds sorted child pairs and the ignore ruleset
// fingerprint into a directory hash. NUL and SOH separators keep
// (ab,c) from colliding with (a,bc).
func hashChildren(c *cache.Cache, rulesetFP [32]byte, pairs []childPair) cache.ContentHash {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

	parts := make([][]byte, 0, len(pairs)*2+1)
	parts = append(parts, rulesetFP[:])
	for _, p := range pairs {
		entry := make([]byte, 0, len(p.name)+2+len(p.hash))
		entry = append(entry, p.name...)
		entry = append(entry, 0x00)
		entry = append(entry, p.hash[:]...)
		entry = append(entry, 0x01)
		parts = append(parts, entry)
	}
	return c.HashNamed(parts...)
}
