package filestore

import (
	"context"
	"slices"
	"sync"
)

// Memory is an ephemeral, thread-safe store that keeps artifacts in memory.
// It backs dry runs, where everything is rendered but nothing is persisted.
type Memory struct {
	artifacts sync.Map // Key: artifact name, Value: []byte
}

// NewMemory creates a new, empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Put implements Store. The data is copied.
func (m *Memory) Put(_ context.Context, name string, data []byte) error {
	m.artifacts.Store(name, slices.Clone(data))
	return nil
}

// Location implements Store.
func (m *Memory) Location(name string) string {
	return "memory://" + name
}

// Get returns the artifact stored under name.
func (m *Memory) Get(name string) ([]byte, bool) {
	v, ok := m.artifacts.Load(name)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// Names returns the stored artifact names in sorted order.
func (m *Memory) Names() []string {
	var names []string
	m.artifacts.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	slices.Sort(names)
	return names
}

// Size returns the total number of bytes stored.
func (m *Memory) Size() int {
	total := 0
	m.artifacts.Range(func(_, v any) bool {
		total += len(v.([]byte))
		return true
	})
	return total
}
