package kv

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by tests and local development.
// TTLs are honored lazily: an entry past its deadline is dropped on access,
// the same backstop behavior Redis provides.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value    string
	deadline time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Connect(context.Context) error { return nil }

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	if time.Now().After(e.deadline) {
		delete(m.entries, key)
		return "", ErrKeyNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, deadline: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := time.Now()
	var keys []string
	for k, e := range m.entries {
		if strings.HasPrefix(k, prefix) && now.Before(e.deadline) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok || time.Now().After(e.deadline) {
		return false, nil
	}
	return true, nil
}
