package storage

import (
	"context"
	"sync"
)

// Memory keeps values in process. Everything is lost on restart.
type Memory struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, sessionID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[sessionID][key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.values[sessionID]
	if !ok {
		bucket = make(map[string]string)
		m.values[sessionID] = bucket
	}
	bucket[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values[sessionID], key)
	return nil
}

func (m *Memory) Purge(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, sessionID)
	return nil
}
