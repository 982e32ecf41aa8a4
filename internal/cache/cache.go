package cache

import (
	"crypto/sha256"

	"vibescan/internal/heuristics"
	"vibescan/internal/logging"
	"vibescan/internal/report"
)

// Cache is the typed layer over a Store. Every key is derived from raw
// content mixed with the heuristics fingerprint, so changing any weight
// silently retires the whole key domain instead of mutating entries.
//
// Undecodable entries are treated as misses and deleted, never surfaced
// as errors; the next Put heals the slot.
type Cache struct {
	store  Store
	epoch  [32]byte
	logger *logging.Logger
}

// New builds a Cache over store, versioned by the provider's
// fingerprint.
func New(store Store, provider heuristics.Provider, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Cache{
		store:  store,
		epoch:  provider.Fingerprint(),
		logger: logger,
	}
}

// HashContent derives the cache key for raw content. Identical bytes
// under the same heuristics configuration always produce the same key.
func (c *Cache) HashContent(content []byte) ContentHash {
	h := sha256.New()
	h.Write(c.epoch[:])
	h.Write(content)

	var out ContentHash
	copy(out[:], h.Sum(nil))
	return out
}

// HashNamed derives a key from pre-hashed parts plus the epoch. The
// Merkle walker uses it for directory nodes.
func (c *Cache) HashNamed(parts ...[]byte) ContentHash {
	h := sha256.New()
	h.Write(c.epoch[:])
	for _, p := range parts {
		h.Write(p)
	}

	var out ContentHash
	copy(out[:], h.Sum(nil))
	return out
}

func (c *Cache) get(ns Namespace, key ContentHash, v interface{}) bool {
	data, ok, err := c.store.Get(ns, key)
	if err != nil {
		c.logger.Warn("cache read failed", map[string]interface{}{
			"namespace": string(ns),
			"key":       key.Hex(),
			"error":     err.Error(),
		})
		return false
	}
	if !ok {
		return false
	}
	if err := decodeValue(data, v); err != nil {
		// Corrupt entry. Drop it and report a miss; re-analysis will
		// rewrite the slot.
		c.logger.Debug("evicting corrupt cache entry", map[string]interface{}{
			"namespace": string(ns),
			"key":       key.Hex(),
		})
		_ = c.store.Delete(ns, key)
		return false
	}
	return true
}

func (c *Cache) put(ns Namespace, key ContentHash, v interface{}) {
	data, err := encodeValue(v)
	if err != nil {
		c.logger.Warn("cache encode failed", map[string]interface{}{
			"namespace": string(ns),
			"error":     err.Error(),
		})
		return
	}
	if err := c.store.Put(ns, key, data); err != nil {
		// A failed write only costs a future re-analysis.
		c.logger.Warn("cache write failed", map[string]interface{}{
			"namespace": string(ns),
			"key":       key.Hex(),
			"error":     err.Error(),
		})
	}
}

// Report fetches a cached file report.
func (c *Cache) Report(key ContentHash) (report.Report, bool) {
	var r report.Report
	ok := c.get(NSReport, key, &r)
	return r, ok
}

// PutReport stores a file report.
func (c *Cache) PutReport(key ContentHash, r report.Report) {
	c.put(NSReport, key, r)
}

// Symbols fetches cached per-symbol reports.
func (c *Cache) Symbols(key ContentHash) ([]report.SymbolReport, bool) {
	var s []report.SymbolReport
	ok := c.get(NSSymbols, key, &s)
	return s, ok
}

// PutSymbols stores per-symbol reports.
func (c *Cache) PutSymbols(key ContentHash, s []report.SymbolReport) {
	c.put(NSSymbols, key, s)
}

// Dir fetches a cached directory aggregate.
func (c *Cache) Dir(key ContentHash) (report.DirScore, bool) {
	var d report.DirScore
	ok := c.get(NSDir, key, &d)
	return d, ok
}

// PutDir stores a directory aggregate.
func (c *Cache) PutDir(key ContentHash, d report.DirScore) {
	c.put(NSDir, key, d)
}

// Store exposes the underlying store for maintenance commands.
func (c *Cache) Store() Store { return c.store }
