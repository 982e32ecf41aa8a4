package cache

import "sync"

// MemoryStore keeps entries in process memory. It backs tests and the
// no-persistence mode; it satisfies the same per-key atomicity contract
// as the SQLite store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[Namespace]map[ContentHash][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{data: make(map[Namespace]map[ContentHash][]byte)}
	for _, ns := range Namespaces {
		m.data[ns] = make(map[ContentHash][]byte)
	}
	return m
}

func (m *MemoryStore) Get(ns Namespace, key ContentHash) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[ns][key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (m *MemoryStore) Put(ns Namespace, key ContentHash, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[ns][key] = cp
	return nil
}

func (m *MemoryStore) Delete(ns Namespace, key ContentHash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[ns], key)
	return nil
}

func (m *MemoryStore) Count(ns Namespace) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data[ns]), nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ns := range Namespaces {
		m.data[ns] = make(map[ContentHash][]byte)
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }
