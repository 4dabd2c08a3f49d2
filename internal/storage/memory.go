package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is a process-local Store. Nothing survives Close.
type MemoryStore struct {
	values map[string][]byte
	mu     sync.RWMutex
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(ctx, key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return append([]byte(nil), value...), nil
}

// Set replaces the value stored under key.
func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}

	m.mu.Lock()
	m.values[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

// Remove deletes key.
func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// Close drops all values.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	m.values = make(map[string][]byte)
	m.mu.Unlock()
	return nil
}
