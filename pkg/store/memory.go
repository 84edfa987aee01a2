package store

import (
	"sync"

	"github.com/justinqcash1/s3search/pkg/types"
)

// MemoryStore implements Store using an in-memory slice.
type MemoryStore struct {
	mu      sync.RWMutex
	records []types.MatchRecord
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{records: make([]types.MatchRecord, 0)}
}

// AddRecord appends one match record.
func (m *MemoryStore) AddRecord(rec types.MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, rec)
	return nil
}

// Records returns a copy of all records in insertion order.
func (m *MemoryStore) Records() ([]types.MatchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.MatchRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Clear resets the accumulation to empty.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = m.records[:0]
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
