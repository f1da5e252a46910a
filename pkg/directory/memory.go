package directory

import (
	"context"
	"slices"
	"sync"
)

// Memory is a Repository held in process memory.
type Memory struct {
	mu   sync.RWMutex
	list []Employee
}

// NewMemory returns an empty in-memory repository, optionally pre-filled.
func NewMemory(employees ...Employee) *Memory {
	return &Memory{list: slices.Clone(employees)}
}

func (m *Memory) List(ctx context.Context) ([]Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.list), nil
}

func (m *Memory) Add(ctx context.Context, e Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if indexOf(m.list, e.ID) >= 0 {
		return duplicateID(e.ID)
	}
	m.list = append(m.list, e)
	return nil
}

func (m *Memory) Remove(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = slices.DeleteFunc(m.list, func(e Employee) bool { return e.ID == id })
	return nil
}

func (m *Memory) NextID(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return nextID(m.list), nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = nil
	return nil
}

func (m *Memory) Close() error { return nil }

func indexOf(list []Employee, id int) int {
	return slices.IndexFunc(list, func(e Employee) bool { return e.ID == id })
}

var _ Repository = (*Memory)(nil)
