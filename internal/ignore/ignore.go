// Package ignore decides which paths a directory walk skips. Rules are
// injected so callers can swap the production config for test doubles.
package ignore

import (
	"crypto/sha256"
	"path/filepath"
	"sort"
	"strings"
)

// Rules filters walk entries. Paths are slash-separated and relative to
// the walk root. Implementations must be deterministic and safe for
// concurrent use.
type Rules interface {
	// IsIgnored reports whether a file is excluded from analysis.
	IsIgnored(relPath string) bool

	// IsIgnoredDir reports whether a whole directory subtree is skipped.
	IsIgnoredDir(relPath string) bool

	// Fingerprint identifies the active ruleset. It is folded into every
	// directory hash so a ruleset change invalidates cached aggregates.
	Fingerprint() [32]byte
}

// defaultSkipDirs are pruned by every ruleset; they hold artifacts, not
// source.
var defaultSkipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
	".venv":        true,
	".idea":        true,
	".vscode":      true,
}

func skipByDefault(relPath string) bool {
	base := filepath.Base(relPath)
	if defaultSkipDirs[base] {
		return true
	}
	return strings.HasPrefix(base, ".") && base != "."
}

// AllowAll ignores nothing beyond the default artifact directories.
type AllowAll struct{}

func (AllowAll) IsIgnored(relPath string) bool { return false }

func (AllowAll) IsIgnoredDir(relPath string) bool { return skipByDefault(relPath) }

func (AllowAll) Fingerprint() [32]byte { return sha256.Sum256([]byte("allow-all")) }

// Patterns ignores paths matching any of a fixed glob list. Patterns
// containing a slash match against the whole relative path, bare
// patterns against the base name; a trailing slash restricts the
// pattern to directories.
type Patterns struct {
	patterns []string
}

// NewPatterns builds a Patterns ruleset. The pattern list is copied and
// sorted so equal sets fingerprint identically.
func NewPatterns(patterns []string) *Patterns {
	cp := make([]string, len(patterns))
	copy(cp, patterns)
	sort.Strings(cp)
	return &Patterns{patterns: cp}
}

func (p *Patterns) matches(relPath string, isDir bool) bool {
	base := filepath.Base(relPath)
	for _, pat := range p.patterns {
		dirOnly := strings.HasSuffix(pat, "/")
		if dirOnly {
			if !isDir {
				continue
			}
			pat = strings.TrimSuffix(pat, "/")
		}

		target := base
		if strings.Contains(pat, "/") {
			target = relPath
		}
		if ok, err := filepath.Match(pat, target); err == nil && ok {
			return true
		}
	}
	return false
}

func (p *Patterns) IsIgnored(relPath string) bool {
	// A file under an ignored directory is ignored too.
	dir := filepath.Dir(relPath)
	for dir != "." && dir != "/" && dir != "" {
		if p.matches(dir, true) {
			return true
		}
		dir = filepath.Dir(dir)
	}
	return p.matches(relPath, false)
}

func (p *Patterns) IsIgnoredDir(relPath string) bool {
	if skipByDefault(relPath) {
		return true
	}
	return p.matches(relPath, true)
}

func (p *Patterns) Fingerprint() [32]byte {
	h := sha256.New()
	h.Write([]byte("patterns\n"))
	for _, pat := range p.patterns {
		h.Write([]byte(pat))
		h.Write([]byte{0})
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
