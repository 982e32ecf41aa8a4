// Package heuristics holds the signal catalogue and the weight
// configuration applied on top of it. The default catalogue is embedded
// at build time; overrides come from the [heuristics] table of a
// .vibescan config file. The catalogue bytes and the override set
// together form the fingerprint that versions every cache key.
package heuristics

import (
	"crypto/sha256"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"vibescan/internal/report"
)

//go:embed heuristics.toml
var defaultCatalogue []byte

// Spec describes one catalogued signal: its ID, the analyzer that emits
// it, and its default family and weight.
type Spec struct {
	ID          string             `toml:"id"`
	Analyzer    string             `toml:"analyzer"`
	Description string             `toml:"description"`
	Family      report.ModelFamily `toml:"family"`
	Weight      float64            `toml:"weight"`
}

type catalogueFile struct {
	Signals []Spec `toml:"signal"`
}

var (
	loadOnce sync.Once
	specs    []Spec
	byID     map[string]Spec
)

func load() {
	loadOnce.Do(func() {
		var file catalogueFile
		if err := toml.Unmarshal(defaultCatalogue, &file); err != nil {
			// The catalogue ships inside the binary; failing to parse it
			// is a build defect, not a runtime condition.
			panic(fmt.Sprintf("embedded heuristics catalogue: %v", err))
		}
		specs = file.Signals
		byID = make(map[string]Spec, len(specs))
		for _, s := range specs {
			byID[s.ID] = s
		}
	})
}

// All returns every catalogued signal spec.
func All() []Spec {
	load()
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Lookup resolves a concrete signal ID against the catalogue. IDs are
// namespaced <language>.<analyzer>.<name>; when no exact entry exists the
// language segment falls back to the "*" wildcard.
func Lookup(id string) (Spec, bool) {
	load()
	if s, ok := byID[id]; ok {
		return s, true
	}
	if i := strings.Index(id, "."); i > 0 {
		if s, ok := byID["*"+id[i:]]; ok {
			s.ID = id
			return s, true
		}
	}
	return Spec{}, false
}

// Provider resolves effective signal weights. A weight of zero means the
// signal is suppressed and must not appear in any report.
type Provider interface {
	// Weight returns the effective weight for a signal ID. ok is false
	// when the ID is not in the catalogue at all.
	Weight(id string) (w float64, ok bool)

	// Fingerprint identifies this weight configuration. It participates
	// in every content hash, so changing any weight rotates the whole
	// cache key domain.
	Fingerprint() [32]byte
}

// Defaults is the Provider backed by the embedded catalogue alone.
type Defaults struct{}

// Weight returns the catalogue default for id.
func (Defaults) Weight(id string) (float64, bool) {
	s, ok := Lookup(id)
	if !ok {
		return 0, false
	}
	return s.Weight, true
}

// Fingerprint hashes the embedded catalogue bytes.
func (Defaults) Fingerprint() [32]byte {
	return sha256.Sum256(defaultCatalogue)
}

// Configured layers per-ID weight overrides on top of the defaults.
type Configured struct {
	overrides map[string]float64
}

// NewConfigured builds a Provider from an override map. Override keys may
// use the "*" language wildcard just like the catalogue. Unknown IDs are
// rejected so a typo in a config file fails loudly instead of silently
// doing nothing.
func NewConfigured(overrides map[string]float64) (*Configured, error) {
	load()
	for id, w := range overrides {
		if _, exact := byID[id]; !exact {
			if _, ok := Lookup(id); !ok {
				return nil, fmt.Errorf("heuristics override %q does not match any catalogued signal", id)
			}
		}
		if w < 0 {
			return nil, fmt.Errorf("heuristics override %q has negative weight %v", id, w)
		}
	}
	cp := make(map[string]float64, len(overrides))
	for k, v := range overrides {
		cp[k] = v
	}
	return &Configured{overrides: cp}, nil
}

// Weight returns the override for id when present, otherwise the
// catalogue default. Wildcard overrides apply to every language.
func (c *Configured) Weight(id string) (float64, bool) {
	if w, ok := c.overrides[id]; ok {
		return w, true
	}
	if i := strings.Index(id, "."); i > 0 {
		if w, ok := c.overrides["*"+id[i:]]; ok {
			return w, true
		}
	}
	return Defaults{}.Weight(id)
}

// Fingerprint covers the catalogue bytes and a canonical rendering of
// the overrides, so two processes with the same config agree on keys.
func (c *Configured) Fingerprint() [32]byte {
	h := sha256.New()
	h.Write(defaultCatalogue)

	keys := make([]string, 0, len(c.overrides))
	for k := range c.overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%g\n", k, c.overrides[k])
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Inert suppresses every signal. Tests use it to exercise the
// no-evidence aggregation path.
type Inert struct{}

// Weight reports every catalogued signal as suppressed.
func (Inert) Weight(id string) (float64, bool) {
	if _, ok := Lookup(id); !ok {
		return 0, false
	}
	return 0, true
}

// Fingerprint is a fixed tag distinct from any real configuration.
func (Inert) Fingerprint() [32]byte {
	return sha256.Sum256([]byte("inert-heuristics"))
}
