package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps client state in process memory, one namespace per client.
type MemoryStore struct {
	mu      sync.RWMutex
	clients map[string]*memoryEntry
	now     func() time.Time
}

// memoryEntry is one client's keys and the time of its last write
type memoryEntry struct {
	values    map[string]string
	updatedAt time.Time
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clients: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// SetClock replaces the clock used to stamp writes
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// ForClient returns a KeyValueStore view scoped to one client.
func (m *MemoryStore) ForClient(clientID string) KeyValueStore {
	return &memoryClient{parent: m, clientID: clientID}
}

// Len returns the number of clients with at least one stored key.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// DeleteStale drops every client not written since olderThan and returns how
// many were removed.
func (m *MemoryStore) DeleteStale(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for clientID, entry := range m.clients {
		if entry.updatedAt.Before(olderThan) {
			delete(m.clients, clientID)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MemoryStore) get(clientID, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.clients[clientID]
	if !ok {
		return "", false
	}
	v, ok := entry.values[key]
	return v, ok
}

func (m *MemoryStore) set(clientID, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.clients[clientID]
	if !ok {
		entry = &memoryEntry{values: make(map[string]string)}
		m.clients[clientID] = entry
	}
	entry.values[key] = value
	entry.updatedAt = m.now()
}

func (m *MemoryStore) remove(clientID, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.clients[clientID]
	if !ok {
		return
	}
	delete(entry.values, key)
	if len(entry.values) == 0 {
		delete(m.clients, clientID)
		return
	}
	entry.updatedAt = m.now()
}

type memoryClient struct {
	parent   *MemoryStore
	clientID string
}

func (c *memoryClient) Get(key string) (string, bool) { return c.parent.get(c.clientID, key) }
func (c *memoryClient) Set(key, value string)         { c.parent.set(c.clientID, key, value) }
func (c *memoryClient) Remove(key string)             { c.parent.remove(c.clientID, key) }
