package leadcache

import (
	"context"
	"sync"
)

// Memory is the default cache backend: a process-lifetime map with no
// eviction. Unbounded growth is an accepted tradeoff at this scale.
type Memory struct {
	mu      sync.RWMutex
	entries map[int64]Entry
}

// NewMemory constructs an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[int64]Entry)}
}

// Get returns the cached entry for userID and whether one exists.
func (m *Memory) Get(_ context.Context, userID int64) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[userID]
	return entry, ok
}

// Put merges patch into the entry for userID, creating it when absent.
func (m *Memory) Put(_ context.Context, userID int64, patch Patch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[userID] = merge(m.entries[userID], patch)
}

// Len reports the number of cached users.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}
