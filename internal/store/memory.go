package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryEntry struct {
	seq   int64
	value []byte
}

// MemoryStore is an in-process KV used for tests and ephemeral deployments.
type MemoryStore struct {
	mu   sync.RWMutex
	seq  int64
	data map[Collection]map[string]memoryEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[Collection]map[string]memoryEntry)}
}

// Get returns a copy of the stored value.
func (m *MemoryStore) Get(_ context.Context, collection Collection, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[collection][key]
	if !ok {
		return nil, false, nil
	}
	return cloneBytes(e.value), true, nil
}

// Put stores a copy of value, keeping the original insertion order on overwrite.
func (m *MemoryStore) Put(_ context.Context, collection Collection, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[collection]; !ok {
		m.data[collection] = make(map[string]memoryEntry)
	}
	e, exists := m.data[collection][key]
	if !exists {
		m.seq++
		e.seq = m.seq
	}
	e.value = cloneBytes(value)
	m.data[collection][key] = e
	return nil
}

// List returns entries matching prefix in insertion order.
func (m *MemoryStore) List(_ context.Context, collection Collection, prefix string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type seqEntry struct {
		seq int64
		Entry
	}
	var matched []seqEntry
	for k, e := range m.data[collection] {
		if strings.HasPrefix(k, prefix) {
			matched = append(matched, seqEntry{seq: e.seq, Entry: Entry{Key: k, Value: cloneBytes(e.value)}})
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	entries := make([]Entry, 0, len(matched))
	for _, e := range matched {
		entries = append(entries, e.Entry)
	}
	return entries, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
