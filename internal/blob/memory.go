package blob

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-memory sink for tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

// EnsureBucket implements Sink.
func (m *Memory) EnsureBucket(ctx context.Context) error { return nil }

// Put implements Sink.
func (m *Memory) Put(ctx context.Context, key string, data []byte) (string, error) {
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[key] = stored
	return "memory://" + key, nil
}

// Get returns a stored object.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}

// Keys returns all stored keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
